package classify

// Record is the classification of one failing testcase.
type Record struct {
	TestcasePath   string `json:"testcase_path"`
	FailingCommand string `json:"failing_command"`
	ErrorMessage   string `json:"error_message"`
	Tag            string `json:"tag"`
}

// Result is the outcome of one classification pass.
// Total counts every manifest entry, including the ones that produced no record.
type Result struct {
	Total   int      `json:"total"`
	Records []Record `json:"records"`
}
