package util

type recordFields struct {
	Severity     string
	Irreversible string
	Score        string
}

// Fields are the risk record keys the aggregator reads or writes. Every other key is
// carried through untouched.
var Fields = recordFields{
	Severity:     "severity",
	Irreversible: "irreversible",
	Score:        "score",
}

type personaModes struct {
	Auto string
	Full string
}

var PersonaModes = personaModes{
	Auto: "auto",
	Full: "full",
}
