// Package quadrature computes definite integrals with the composite
// trapezoidal rule, splitting the interior samples of the grid across
// concurrent workers.
//
// For n sub-intervals of [a, b] the step is h = (b-a)/n and the estimate is
//
//	h/2 * (f(a) + f(b) + 2 * sum_{i=1}^{n-1} f(a + i*h))
//
// Plan splits the interior indices {1, ..., n-1} into one contiguous Range
// per worker. Each Worker sums its range into a private accumulator; Combine
// adds the partial sums in worker order once every worker has been joined,
// so the parallel strategies return bit-identical results across calls.
//
// ConvergenceLoop drives repeated integrations with a growing n until two
// successive estimates differ by less than a tolerance.
package quadrature
