// Package main provides the nli command, which trains and assesses natural
// language inference classifiers on SNLI and MultiNLI: logistic regression
// over word-overlap, word-cross-product and GloVe features, a shallow neural
// network, and sentence-encoding and chained LSTMs.
package main
