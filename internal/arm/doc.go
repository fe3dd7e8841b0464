// Package arm implements the physics estimator for a 3-DOF planar arm.
//
// The estimator is a closed-form pipeline evaluated once per sample:
//
//   - [Estimator.ForwardKinematics]: joint angles to end-effector position
//   - [Estimator.TorqueRequirements]: static gravity torque per joint
//   - [Estimator.PowerConsumption]: motor power from torque and joint velocity
//   - [Estimator.Update]: battery drain plus payload, reach and stability
//
// Angles are in degrees, lengths in metres, torques in N*m and power in W.
//
// # Example
//
//	est, _ := arm.New(arm.DefaultConfig())
//	st := est.Update(arm.Angles{30, -15, 10})
//	fmt.Println(st.EndEffector, st.TotalPower)
//
// # Thread Safety
//
// Estimator instances are NOT thread-safe. Battery charge carries over
// between updates, so each concurrent run needs its own Estimator.
package arm
