// Package trainer provides the epoch loop shared by the gradient-trained
// classifiers, statistically sized monitoring evaluations, and resuming from
// saved weights.
package trainer
