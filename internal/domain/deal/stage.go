package deal

import "strings"

type Stage string

const (
	StageInquiry      Stage = "INQUIRY"
	StageShortlist    Stage = "SHORTLIST"
	StageNegotiation  Stage = "NEGOTIATION"
	StageAgreement    Stage = "AGREEMENT"
	StageRegistration Stage = "REGISTRATION"
	StagePayment      Stage = "PAYMENT"
	StageCompleted    Stage = "COMPLETED"
)

// Rank is the fixed position of a stage in the pipeline. Unknown stages rank 0.
func (s Stage) Rank() int {
	switch s {
	case StageInquiry:
		return 1
	case StageShortlist:
		return 2
	case StageNegotiation:
		return 3
	case StageAgreement:
		return 4
	case StageRegistration:
		return 5
	case StagePayment:
		return 6
	case StageCompleted:
		return 7
	}
	return 0
}

func (s Stage) Label() string {
	switch s {
	case StageInquiry:
		return "Inquiry"
	case StageShortlist:
		return "Shortlisted"
	case StageNegotiation:
		return "Negotiation"
	case StageAgreement:
		return "Agreement"
	case StageRegistration:
		return "Registration"
	case StagePayment:
		return "Payment"
	case StageCompleted:
		return "Completed"
	}
	return string(s)
}

func (s Stage) Valid() bool { return s.Rank() > 0 }

func (s Stage) Terminal() bool { return s == StageCompleted }

// CanMoveTo allows forward moves and same-stage updates only.
func (s Stage) CanMoveTo(next Stage) bool {
	return next.Valid() && next.Rank() >= s.Rank()
}

// Stages returns every stage in pipeline order.
func Stages() []Stage {
	return []Stage{
		StageInquiry,
		StageShortlist,
		StageNegotiation,
		StageAgreement,
		StageRegistration,
		StagePayment,
		StageCompleted,
	}
}

// ParseStage accepts any casing; ok is false for unknown names.
func ParseStage(raw string) (Stage, bool) {
	s := Stage(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.Valid()
}
