package constants

// ResultCategory is the stored type of a QC result.
// Stable values (written to results.json and the qc_results table).
type ResultCategory string

const (
	ResultDateTime ResultCategory = "datetime"
	ResultString   ResultCategory = "string"
	ResultFloat    ResultCategory = "float"
)

// MaxStringLength caps string results, counted in runes.
const MaxStringLength = 100

// ResultAcquisitionDateTime is the fixed name of the acqdatetime result.
const ResultAcquisitionDateTime = "AcquisitionDateTime"

// TooManyLevels is reported in place of a value for field paths nested deeper than two sequences.
const TooManyLevels = "too many levels"
