// Package prawitz lower-bounds tail probabilities of normalized Rademacher
// sums. The analytic oracle integrates a characteristic-function
// representation (Prawitz smoothing, following Dvorak and Klein); the Bounder
// tightens those values with a dynamic programming recurrence.
package prawitz

import (
	"fmt"
	"math"
)

const (
	// DefaultEpsilon is the total additive slack given to the three quadratures.
	DefaultEpsilon = 0.001

	// theta solves exp(-x^2/2) + cos(x) = 0 on [0, pi].
	theta = 1.7780882886686339603

	// canonicalSmallA replaces every leading-coefficient cap below it. A larger
	// cap only weakens the bound, so this is a relaxation.
	canonicalSmallA = 0.1

	halfWidth = 0.5
)

// normalChar is the characteristic function of a standard normal variable.
func normalChar(x float64) float64 {
	return math.Exp(-x * x / 2)
}

// fxBound bounds |f_X(v)| when the leading coefficient is at most a1.
// Valid only for a1*v < pi.
func fxBound(v, a1 float64) float64 {
	if !(a1*v < math.Pi) {
		panic(fmt.Sprintf("prawitz: fxBound outside a1*v < pi (a1=%v, v=%v)", a1, v))
	}
	if a1*v < theta {
		return normalChar(v)
	}
	return math.Pow(-math.Cos(a1*v), 1/(a1*a1))
}

// differenceBound bounds |f_X(v) - normalChar(v)|. Valid only for a1*v <= pi/2.
func differenceBound(v, a1 float64) float64 {
	if !(a1*v <= math.Pi/2) {
		panic(fmt.Sprintf("prawitz: differenceBound outside a1*v <= pi/2 (a1=%v, v=%v)", a1, v))
	}
	return normalChar(v) - math.Pow(math.Cos(a1*v), 1/(a1*a1))
}

// kernel is k(u, x, T). The endpoints are removable singularities of the
// general formula and are evaluated directly.
func kernel(u, x, t float64) float64 {
	switch u {
	case 0:
		return 1 + t*x/math.Pi
	case 1:
		return 0
	}
	txu := t * x * u
	return (1-u)*math.Sin(math.Pi*u+txu)/math.Sin(math.Pi*u) + math.Sin(txu)/math.Pi
}

// lipschitzIntegrate returns a midpoint Riemann sum of f over [start, end]
// whose error is strictly below epsilon, given a bound on |f'| and on the
// absolute error of each evaluation of f.
func lipschitzIntegrate(f func(float64) float64, start, end, epsilon, derivativeBound, maxFError float64) float64 {
	width := end - start
	budget := epsilon - maxFError*width
	if budget <= 0 {
		panic(fmt.Sprintf("prawitz: evaluation error %v leaves no quadrature budget for epsilon %v", maxFError, epsilon))
	}
	steps := int(2 + derivativeBound*width*width/(4*budget))
	implied := derivativeBound*width*width/(4*float64(steps)) + width*maxFError
	if !(implied < epsilon) {
		panic(fmt.Sprintf("prawitz: quadrature error %v not below %v", implied, epsilon))
	}

	sum := 0.0
	n := float64(steps)
	for k := 0; k < steps; k++ {
		sum += f(start + float64(2*k+1)*width/(2*n))
	}
	return width * sum / n
}

// computeF evaluates F(a1, x, T, q) minus its integration slack.
func computeF(a1, x, t, q, epsilon float64) float64 {
	tx := math.Abs(t * x)

	// Lipschitz constants of the three integrands.
	bound1 := t*(1+2*tx/math.Pi) + 1.1*(tx*tx/(2*math.Pi)+math.Pi)
	bound2 := t*(1+2*tx/math.Pi) + tx*tx/(2*math.Pi) + math.Pi
	bound3 := 2*(t/3)*(1+2*tx/math.Pi) + tx*tx/(2*math.Pi) + math.Pi
	absError := math.Pow(2, -40) * (2 + tx)

	i1 := lipschitzIntegrate(func(u float64) float64 {
		return math.Abs(kernel(u, x, t)) * differenceBound(u*t, a1)
	}, 0, q, epsilon/4, bound1, absError)
	i2 := lipschitzIntegrate(func(u float64) float64 {
		return math.Abs(kernel(u, x, t)) * fxBound(u*t, a1)
	}, q, 1, epsilon/4, bound2, absError)
	i3 := lipschitzIntegrate(func(u float64) float64 {
		return kernel(u, x, t) * normalChar(u*t)
	}, 0, q, epsilon/4, bound3, absError)

	return 0.5 - epsilon - (i1 + i2 + i3)
}

// analyticBound lower-bounds Pr[X > x] over normalized Rademacher sums with
// leading coefficient at most a, using T = pi/a and q = 1/2. a must already
// be at least canonicalSmallA.
func analyticBound(a, x, epsilon float64) float64 {
	if !(a > 0) {
		panic(fmt.Sprintf("prawitz: leading coefficient cap must be positive, got %v", a))
	}
	return math.Max(0, computeF(a, x, math.Pi/a, halfWidth, epsilon))
}
