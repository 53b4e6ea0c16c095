package domain

// ExportKind defines the kind of artifact an export produces
type ExportKind string

const (
	ExportKindCSV           ExportKind = "csv"
	ExportKindSummaryPDF    ExportKind = "summary.pdf"
	ExportKindStatisticsPDF ExportKind = "statistics.pdf"
	ExportKindSEPA          ExportKind = "sepa.xml"
	ExportKindXLSX          ExportKind = "xlsx"
	ExportKindBundle        ExportKind = "bundle.zip"
)

// ExportKinds lists every supported kind
var ExportKinds = []ExportKind{
	ExportKindCSV,
	ExportKindSummaryPDF,
	ExportKindStatisticsPDF,
	ExportKindSEPA,
	ExportKindXLSX,
	ExportKindBundle,
}

// ParseExportKind returns the kind for s, or false if s is unknown.
func ParseExportKind(s string) (ExportKind, bool) {
	for _, k := range ExportKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// SeasonExport is the payload every export consumes: the active season's
// records plus the sailor profile. It is also the CLI input file format.
type SeasonExport struct {
	Season   string          `json:"season" validate:"required,season"`
	Profile  ProfileRecord   `json:"profile"`
	Regattas []RegattaRecord `json:"regattas" validate:"dive"`
}
