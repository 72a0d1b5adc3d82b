package pipeline

// DemoQuestions are sample questions for the accrual-accounts dump the tool
// was first built around. The CLI demo command and the HTTP examples endpoint
// both serve them.
var DemoQuestions = []string{
	"How many rows have missing values?",
	"What are the average, min, and max values for each numeric column?",
	"Are there any outliers in the 'Transaction Value' column?",
	"How many unique categories are in the 'Currency' column?",
	"Show me rows where 'Transaction Value' is greater than 10000.",
}
