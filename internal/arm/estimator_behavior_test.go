package arm_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/armsim/internal/arm"
)

var _ = Describe("Estimator", func() {
	var est *arm.Estimator

	BeforeEach(func() {
		var err error
		est, err = arm.New(arm.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("a fresh estimator", func() {
		It("starts in the rest pose", func() {
			st := est.State()
			Expect(st.EndEffector.X).To(BeNumerically("~", 1.8, 1e-12))
			Expect(st.EndEffector.Y).To(BeNumerically("~", 0.3, 1e-12))
			Expect(st.BatteryCharge).To(Equal(100.0))
			Expect(st.Stability).To(Equal(100.0))
		})
	})

	Describe("Update", func() {
		It("matches forward kinematics for the stored end effector", func() {
			a := arm.Angles{25, 40, -60}
			st := est.Update(a)
			Expect(st.EndEffector).To(Equal(est.ForwardKinematics(a)))
			Expect(st.Angles()).To(Equal(a))
		})

		It("never lets voltage fall below the floor", func() {
			for i := 0; i < 200; i++ {
				st := est.Update(arm.Angles{float64(i), float64(-i), 0})
				Expect(st.BatteryVoltage).To(BeNumerically(">=", arm.DefaultVoltageFloor))
				Expect(st.BatteryCharge).To(BeNumerically(">=", 0))
			}
		})

		It("reports more torque with a heavier payload", func() {
			light := est.TorqueRequirements(arm.Angles{10, 10, 10})
			Expect(est.SetParam("payload_mass", 10)).To(Succeed())
			heavy := est.TorqueRequirements(arm.Angles{10, 10, 10})
			for i := range light {
				Expect(heavy[i]).To(BeNumerically(">", light[i]))
			}
		})

		It("keeps stability within [0, 100]", func() {
			Expect(est.SetParam("payload_mass", 500)).To(Succeed())
			cfg := est.Config()
			cfg.JointVelocities = [arm.NumJoints]float64{500, 500, 500}
			fast, err := arm.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			st := fast.Update(arm.Angles{})
			Expect(st.TotalPower).To(BeNumerically(">", 1000))
			Expect(st.Stability).To(Equal(0.0))
		})
	})

	DescribeTable("forward kinematics reach",
		func(a arm.Angles, reach float64) {
			st := est.Update(a)
			Expect(st.Reach).To(BeNumerically("~", reach, 1e-9))
		},
		Entry("extended", arm.Angles{0, 0, 0}, math.Hypot(1.8, 0.3)),
		Entry("vertical", arm.Angles{90, 0, 0}, 2.1),
		Entry("hanging", arm.Angles{-90, 0, 0}, 1.5),
	)
})
