// Package viz provides the terminal view of a live arm run.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: side view of the arm, torque chart and stats panel fed by a [sim.Live] loop
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [DrawArm]: draws links, joints and the end-effector trail onto a canvas
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset trajectory and battery
//	+/-   - Raise or lower the payload by 0.5 kg
//	?     - Toggle full help
//	Q     - Quit
package viz
