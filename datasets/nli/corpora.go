package nli

import "path/filepath"

const (
	snliTrain             = "snli_1.0_train.jsonl"
	snliDev               = "snli_1.0_dev.jsonl"
	snliTest              = "snli_1.0_test.jsonl"
	multiNLITrain         = "multinli_1.0_train.jsonl"
	multiNLIDevMatched    = "multinli_1.0_dev_matched.jsonl"
	multiNLIDevMismatched = "multinli_1.0_dev_mismatched.jsonl"
)

// SNLITrainReader reads the SNLI training split from home.
func SNLITrainReader(home string, opts ...Option) *Reader {
	return NewReader(filepath.Join(home, snliTrain), opts...)
}

// SNLIDevReader reads the SNLI dev split from home.
func SNLIDevReader(home string, opts ...Option) *Reader {
	return NewReader(filepath.Join(home, snliDev), opts...)
}

// SNLITestReader reads the SNLI test split from home.
func SNLITestReader(home string, opts ...Option) *Reader {
	return NewReader(filepath.Join(home, snliTest), opts...)
}

// MultiNLITrainReader reads the MultiNLI training split from home.
func MultiNLITrainReader(home string, opts ...Option) *Reader {
	return NewReader(filepath.Join(home, multiNLITrain), opts...)
}

// MultiNLIMatchedDevReader reads the in-genre MultiNLI dev split.
func MultiNLIMatchedDevReader(home string, opts ...Option) *Reader {
	return NewReader(filepath.Join(home, multiNLIDevMatched), opts...)
}

// MultiNLIMismatchedDevReader reads the cross-genre MultiNLI dev split.
func MultiNLIMismatchedDevReader(home string, opts ...Option) *Reader {
	return NewReader(filepath.Join(home, multiNLIDevMismatched), opts...)
}
