// Package diagnostic provides the structured, JSON-renderable
// diagnostic record shared by every compilation phase, generalizing
// the teacher's internal/errors.Report to the compiler's Region type
// and six-phase taxonomy.
package diagnostic

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sunholo/lumen/internal/region"
)

// Severity is the diagnostic level. Only Fatal suppresses subsequent
// phases; Warning and Error both allow the pipeline to continue.
type Severity string

const (
	Warning Severity = "warning"
	Error   Severity = "error"
	Fatal   Severity = "fatal"
)

// Phase names a pipeline stage, matching internal package names.
type Phase string

const (
	PhaseLex    Phase = "lex"
	PhaseParse  Phase = "parse"
	PhaseCanon  Phase = "canon"
	PhaseCheck  Phase = "check"
	PhaseLayout Phase = "layout"
	PhaseEval   Phase = "eval"
)

// Schema is the stable identifier for the JSON rendering of a Report.
const Schema = "lumen.diagnostic/v1"

// Fix is an optional suggested-fix payload attached to a Report.
type Fix struct {
	Description string `json:"description"`
	Replacement string `json:"replacement,omitempty"`
}

// Report is the canonical structured diagnostic. Every diagnostic
// variant produced anywhere in the pipeline is rendered through one of
// these; Code distinguishes the variant, Data carries variant-specific
// payload fields.
type Report struct {
	Schema   string         `json:"schema"`
	Code     string         `json:"code"`
	Phase    Phase          `json:"phase"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Region   region.Region  `json:"region"`
	Data     map[string]any `json:"data,omitempty"`
	Fix      *Fix           `json:"fix,omitempty"`
}

func New(phase Phase, sev Severity, code, message string, r region.Region) *Report {
	return &Report{
		Schema:   Schema,
		Code:     code,
		Phase:    phase,
		Severity: sev,
		Message:  message,
		Region:   r,
	}
}

func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}

func (r *Report) WithFix(description, replacement string) *Report {
	r.Fix = &Fix{Description: description, Replacement: replacement}
	return r
}

func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Render produces a human-readable single-line summary. Full
// excerpt-based rendering (code frame + caret) is the host's
// responsibility, given a region.LineIndex for the source file; this
// method only uses information the Report itself carries.
func (r *Report) Render() string {
	return fmt.Sprintf("%s [%s] %s: %s (%s)", r.Severity, r.Code, r.Phase, r.Message, r.Region)
}

// Error implements the error interface so a Report can be returned
// directly, or wrapped, from any function that produces one.
func (r *Report) Error() string {
	return r.Code + ": " + r.Message
}

// Bag accumulates diagnostics for one ModuleEnv. Append-only: stages
// never reorder or deduplicate entries (Design Notes, "Diagnostic
// accumulation").
type Bag struct {
	reports []*Report
	log     *logrus.Entry
}

// NewBag creates an accumulator that also mirrors every appended
// report to a structured logrus entry, grounded on go-corset's use of
// logrus across its pipeline stages. The logging is purely an
// observability side effect; it never gates pipeline continuation.
func NewBag(log *logrus.Entry) *Bag {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Bag{log: log}
}

func (b *Bag) Add(r *Report) {
	b.reports = append(b.reports, r)
	entry := b.log.WithField("code", r.Code).WithField("phase", r.Phase)
	switch r.Severity {
	case Fatal:
		entry.Error(r.Message)
	case Error:
		entry.Error(r.Message)
	default:
		entry.Warn(r.Message)
	}
}

func (b *Bag) All() []*Report { return b.reports }

func (b *Bag) HasErrors() bool {
	for _, r := range b.reports {
		if r.Severity == Error || r.Severity == Fatal {
			return true
		}
	}
	return false
}

func (b *Bag) HasFatal() bool {
	for _, r := range b.reports {
		if r.Severity == Fatal {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int { return len(b.reports) }
