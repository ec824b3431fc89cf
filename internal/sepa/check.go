package sepa

import (
	"fmt"
	"strings"

	"github.com/jhartog/sepagen/internal/xmltree"
)

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue is one problem found while checking a template against the paths
// the builder fills.
type Issue struct {
	// Severity is "error" (the build would fail) or "warning" (the build
	// would run but the output is suspect).
	Severity string

	// Path is the lookup that failed, or the location of the problem.
	Path string

	// Message is a human-readable description.
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(i.Severity), i.Path, i.Message)
}

// CheckResult aggregates the issues of one template check.
type CheckResult struct {
	Issues   []Issue
	Errors   int
	Warnings int
}

// OK reports whether the template can be built against.
func (r *CheckResult) OK() bool {
	return r.Errors == 0
}

func (r *CheckResult) add(severity, path, message string) {
	r.Issues = append(r.Issues, Issue{Severity: severity, Path: path, Message: message})
	if severity == SeverityError {
		r.Errors++
	} else {
		r.Warnings++
	}
}

// CheckTemplate verifies that every node the builder fills resolves, and
// that the document carries exactly one payment block with exactly one
// sample transaction block inside it. Build fails fast on the first missing
// node; CheckTemplate reports all problems at once.
func CheckTemplate(doc *xmltree.Document) *CheckResult {
	res := &CheckResult{}
	root := doc.Root

	if root.Name.Space != Namespace {
		res.add(SeverityError, root.Name.Local,
			fmt.Sprintf("document namespace is %q, want %q", root.Name.Space, Namespace))
		// Every namespace-qualified lookup below would fail too; one
		// issue says it better than fifteen.
		return res
	}

	for _, path := range []string{pathMsgID, pathCreated, pathTxCount, pathInitgParty} {
		if _, err := root.Find(Namespace, path); err != nil {
			res.add(SeverityError, path, "header field missing")
		}
	}

	pmtInfs := root.FindAll(Namespace, pathPmtInf)
	switch len(pmtInfs) {
	case 0:
		res.add(SeverityError, pathPmtInf, "no payment block")
		return res
	case 1:
	default:
		res.add(SeverityError, pathPmtInf,
			fmt.Sprintf("%d payment blocks, batches carry exactly one", len(pmtInfs)))
	}
	pmtInf := pmtInfs[0]

	for _, path := range []string{pathPmtInfID, pathExecDate, pathDebtorName, pathDebtorIBAN, pathDebtorBIC} {
		if _, err := pmtInf.Find(Namespace, path); err != nil {
			res.add(SeverityError, path, "payment block field missing")
		}
	}

	blocks := pmtInf.FindAll(Namespace, pathTxBlock)
	switch len(blocks) {
	case 0:
		res.add(SeverityError, pathTxBlock, "no sample transaction block")
		return res
	case 1:
	default:
		res.add(SeverityError, pathTxBlock,
			fmt.Sprintf("%d transaction blocks, the template carries exactly one sample", len(blocks)))
	}
	sample := blocks[0]

	if !directChild(pmtInf, sample) {
		res.add(SeverityError, pathTxBlock, "sample transaction block is not a direct child of the payment block")
	}

	for _, path := range []string{pathEndToEndID, pathAmount, pathCreditorName, pathCreditorIBAN, pathRemittance} {
		if _, err := sample.Find(Namespace, path); err != nil {
			res.add(SeverityError, path, "transaction block field missing")
		}
	}

	if amt, err := sample.Find(Namespace, pathAmount); err == nil {
		if !hasAttr(amt, "Ccy") {
			res.add(SeverityWarning, pathAmount, "no Ccy attribute, banks reject amounts without a currency")
		}
	}

	return res
}

func directChild(parent, el *xmltree.Element) bool {
	for _, c := range parent.Children {
		if c == el {
			return true
		}
	}
	return false
}

func hasAttr(el *xmltree.Element, local string) bool {
	for _, a := range el.Attrs {
		if a.Name.Local == local {
			return true
		}
	}
	return false
}
