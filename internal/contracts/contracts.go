package contracts

// Rule is one structural check on a non-blank slot value. Check returns nil
// when the value satisfies the rule.
type Rule struct {
	Description string
	Check       func(value string) error
}

// Contract describes what the document renderer expects of one slot.
type Contract struct {
	Slot     string
	Required bool
	Rules    []Rule
}

// Slot names covered by the report contract.
const (
	SlotReportID         = "REPORT_ID"
	SlotProfile          = "PROFILE"
	SlotExecutiveSummary = "EXECUTIVE_SUMMARY_TEXT"
	SlotWhatThisMeans    = "WHAT_THIS_MEANS_TEXT"
	SlotFindings         = "FINDING_PAGES_HTML"
)

var slotContracts = map[string]Contract{
	SlotReportID: {
		Slot:     SlotReportID,
		Required: true,
	},
	SlotProfile: {
		Slot:     SlotProfile,
		Required: true,
		Rules: []Rule{
			{Description: "one of investor, owner or tenant", Check: checkProfile},
		},
	},
	SlotExecutiveSummary: {
		Slot:     SlotExecutiveSummary,
		Required: true,
		Rules: []Rule{
			{Description: "at least two bullets", Check: checkBullets},
			{Description: "covers the risk theme", Check: checkTheme(riskTheme, "risk")},
			{Description: "covers the cost theme", Check: checkTheme(costTheme, "cost")},
		},
	},
	SlotWhatThisMeans: {
		Slot:     SlotWhatThisMeans,
		Required: true,
	},
	SlotFindings: {
		Slot:     SlotFindings,
		Required: true,
		Rules: []Rule{
			{Description: "no h1 or h2 headings; the renderer owns major headings", Check: checkNoMajorHeadings},
		},
	},
}

// RequiredSlots lists required slots in a stable order.
var RequiredSlots = []string{
	SlotReportID,
	SlotProfile,
	SlotExecutiveSummary,
	SlotWhatThisMeans,
	SlotFindings,
}

// ContractForSlot returns the contract for the given slot, if it exists.
func ContractForSlot(slot string) (Contract, bool) {
	contract, ok := slotContracts[slot]
	return contract, ok
}
