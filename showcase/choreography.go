package showcase

import "github.com/spaghettifunk/quadn/engine/tween"

// QuadChoreography spreads the letters out, spins the group a full turn,
// then brings them back to a square. It loops forever.
func QuadChoreography() *tween.Choreography {
	return &tween.Choreography{
		Repeat:      -1,
		RepeatDelay: 0.5,
		Defaults: tween.Defaults{
			Duration: 1,
			Delay:    0.25,
		},
		Steps: []tween.Step{
			{Target: "n1.position", At: 0, To: map[string]float32{"z": 0.5}},
			{Target: "n2.position", At: 0, To: map[string]float32{"x": 0.5}},
			{Target: "n3.position", At: 0, To: map[string]float32{"x": -0.5}},
			{Target: "n4.position", At: 0, To: map[string]float32{"z": -0.84}},

			{Target: GroupName + ".rotation", At: 1.5, To: map[string]float32{"y": 6.29}},

			{Target: "n1.position", At: 2, To: map[string]float32{"z": 0}},
			{Target: "n2.position", At: 2, To: map[string]float32{"x": 0.17, "z": -0.17}},
			{Target: "n3.position", At: 2, To: map[string]float32{"x": -0.17, "z": -0.17}},
			{Target: "n4.position", At: 2, To: map[string]float32{"z": -0.34}},
		},
	}
}
