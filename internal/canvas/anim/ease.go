package anim

import "github.com/tanema/gween/ease"

// Ease is a Penner easing function of elapsed time, begin value, change and
// duration.
type Ease = ease.TweenFunc

var (
	// Linear applies no easing.
	Linear      Ease = ease.Linear
	// Power3InOut accelerates then decelerates with a quartic curve.
	Power3InOut Ease = ease.InOutQuart
	// Power4Out decelerates with a quintic curve.
	Power4Out   Ease = ease.OutQuint
	ExpoOut     Ease = ease.OutExpo
)
