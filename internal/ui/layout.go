package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops labels.
	LayoutCompactWidth = 100

	// LayoutMinBodyHeight is the smallest answer panel we lay out.
	LayoutMinBodyHeight = 3
)

const (
	// ActivityLines is how many log lines the activity panel reads.
	ActivityLines = 400

	// inputPanelHeight is the input field plus its border.
	inputPanelHeight = 3

	// chromeHeight covers the header and command bar.
	chromeHeight = 2

	helpModalWidth = 44
	queryCharLimit = 2000
)
