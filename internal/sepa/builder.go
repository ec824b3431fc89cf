// =============================================================================
// SEPA Batch Generator - Document Builder Module
// =============================================================================
//
// The builder turns a parsed pain.001.001.03 template plus a record set into
// a submittable credit-transfer batch. The template is structurally
// authoritative: header and debtor leaves get their text replaced, and the
// single sample transaction block is detached, deep-cloned once per record
// and re-appended in input order. Nothing else in the tree is touched.
//
// Ordering matters: the payment info id reuses the freshly minted message id,
// and the sample block must leave the tree before its clones come back, so
// the finished payment block holds exactly len(transactions) entries.
//
// The builder trusts its inputs. Amounts, IBANs and BICs are copied in as-is;
// the consuming bank is the validation layer for data quality.
//
// =============================================================================

package sepa

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jhartog/sepagen/internal/record"
	"github.com/jhartog/sepagen/internal/xmltree"
)

// Namespace qualifies every template lookup.
const Namespace = "urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"

// Template paths the builder fills. Paths resolve against the document
// namespace; the first segment may sit anywhere below the search root, the
// rest are direct children.
const (
	pathMsgID      = "MsgId"
	pathCreated    = "CreDtTm"
	pathTxCount    = "NbOfTxs"
	pathInitgParty = "InitgPty/Nm"
	pathPmtInfID   = "PmtInfId"
	pathExecDate   = "ReqdExctnDt"
	pathDebtorName = "Dbtr/Nm"
	pathDebtorIBAN = "DbtrAcct/Id/IBAN"
	pathDebtorBIC  = "DbtrAgt/FinInstnId/BIC"
	pathPmtInf     = "PmtInf"
	pathTxBlock    = "CdtTrfTxInf"
)

// Paths inside one transaction block.
const (
	pathEndToEndID   = "PmtId/EndToEndId"
	pathAmount       = "Amt/InstdAmt"
	pathCreditorName = "Cdtr/Nm"
	pathCreditorIBAN = "CdtrAcct/Id/IBAN"
	pathRemittance   = "RmtInf/Ustrd"
)

// Timestamp layouts for the header fields. Local time, whole seconds, no
// zone suffix.
const (
	layoutCreated  = "2006-01-02T15:04:05"
	layoutExecDate = "2006-01-02"
)

// MessageContext carries the per-run values stamped into the document
// header. It is read-only during a build. Timestamp is the run's single
// "now": it feeds the message id, the creation time and the execution date,
// and is injected rather than captured so builds are reproducible.
type MessageContext struct {
	IDPrefix        string
	InitiatingParty string
	DebtorName      string
	DebtorIBAN      string
	DebtorBIC       string
	Timestamp       time.Time
}

// Builder populates templates. It owns the identifier generator so one
// builder can serve several runs, each with a fresh id.
type Builder struct {
	ids *Generator
}

// NewBuilder returns a Builder minting ids from g.
func NewBuilder(ids *Generator) *Builder {
	return &Builder{ids: ids}
}

// Result is a finished build: the populated document plus the identifiers
// the run minted, for reporting.
type Result struct {
	Doc           *xmltree.Document
	MessageID     string
	PaymentInfoID string
}

// Build populates a working copy of template with the context and the
// transactions, in input order. The template itself is never mutated. Any
// missing node aborts with a *xmltree.NotFoundError; on error no partial
// document is returned.
func (b *Builder) Build(template *xmltree.Document, mc MessageContext, txs []record.Transaction) (*Result, error) {
	doc := template.Clone()
	root := doc.Root

	msgID := b.ids.Generate(mc.IDPrefix, mc.Timestamp)
	if err := setText(root, pathMsgID, msgID); err != nil {
		return nil, err
	}
	if err := setText(root, pathCreated, mc.Timestamp.Format(layoutCreated)); err != nil {
		return nil, err
	}
	if err := setText(root, pathTxCount, strconv.Itoa(len(txs))); err != nil {
		return nil, err
	}
	if err := setText(root, pathInitgParty, mc.InitiatingParty); err != nil {
		return nil, err
	}

	pmtInfID := msgID + "-1"
	if err := setText(root, pathPmtInfID, pmtInfID); err != nil {
		return nil, err
	}
	if err := setText(root, pathExecDate, mc.Timestamp.Format(layoutExecDate)); err != nil {
		return nil, err
	}
	if err := setText(root, pathDebtorName, mc.DebtorName); err != nil {
		return nil, err
	}
	if err := setText(root, pathDebtorIBAN, mc.DebtorIBAN); err != nil {
		return nil, err
	}
	if err := setText(root, pathDebtorBIC, mc.DebtorBIC); err != nil {
		return nil, err
	}

	pmtInf, err := root.Find(Namespace, pathPmtInf)
	if err != nil {
		return nil, err
	}
	sample, err := pmtInf.Find(Namespace, pathTxBlock)
	if err != nil {
		return nil, err
	}
	if !pmtInf.Remove(sample) {
		return nil, fmt.Errorf("template transaction block is not a direct child of the payment block")
	}

	for i, tx := range txs {
		block := sample.Clone()
		if err := setText(block, pathEndToEndID, fmt.Sprintf("%s-%04d", pmtInfID, i)); err != nil {
			return nil, err
		}
		if err := setText(block, pathAmount, tx.Amount); err != nil {
			return nil, err
		}
		if err := setText(block, pathCreditorName, tx.CreditorName); err != nil {
			return nil, err
		}
		if err := setText(block, pathCreditorIBAN, tx.CreditorIBAN); err != nil {
			return nil, err
		}
		if err := setText(block, pathRemittance, tx.Description); err != nil {
			return nil, err
		}
		pmtInf.Append(block)
	}

	return &Result{Doc: doc, MessageID: msgID, PaymentInfoID: pmtInfID}, nil
}

// setText resolves path below el and replaces the node's text.
func setText(el *xmltree.Element, path, value string) error {
	node, err := el.Find(Namespace, path)
	if err != nil {
		return err
	}
	node.Text = value
	return nil
}
