// Package pscan provides parallel prefix sums (scans) over slices with
// arbitrary associative combining operators. While Go is primarily designed
// for concurrent programming, a prefix sum is a good example of an algorithm
// that can be turned from an inherently sequential loop into a parallel
// algorithm, with the goal to improve performance on large inputs.
//
// Pscan provides the following subpackages:
//
// pscan/sequential provides the sequential building blocks: a seeded scan
// over a subrange, a seeded reduction, and a whole-range partial sum that is
// used as the fallback for small inputs and as the reference in tests.
//
// pscan/partition computes the chunk borders that divide an input among a
// team of workers, either evenly or skewed by a dilatation factor.
//
// pscan/parallel runs a fixed team of workers and joins them before
// returning, propagating panics to the caller.
//
// pscan/sync provides the barrier on which such a team rendezvouses.
//
// pscan/config holds the settings snapshot that a scan is parameterized with,
// and loads it from YAML files.
//
// pscan/scan provides the parallel partial sum itself: a two-phase linear
// algorithm without recursion, where each worker first reduces its own chunk,
// a single worker then computes the carries between chunks, and finally all
// workers scan their chunks seeded with the corrected carries.
//
// The result of a parallel scan equals the result of a sequential scan as long
// as the operator is associative. The operator does not need to be commutative.
// Floating-point addition is only approximately associative, so results for
// float inputs may differ in their last bits depending on the number of
// workers.
package pscan
