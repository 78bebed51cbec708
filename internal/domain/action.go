package domain

const (
	StatusSupported   = "supported"
	StatusUnsupported = "unsupported"
)

// Action is the next step of a discovery conversation: either Ask or Recommend.
type Action interface {
	isAction()
}

type Ask struct {
	Question string
}

type Recommend struct {
	Status               string
	RoleTitle            string
	Rationale            string
	Confidence           *float64
	MessageIfUnsupported string
}

func (Ask) isAction()       {}
func (Recommend) isAction() {}

func (r Recommend) Supported() bool {
	return r.Status == StatusSupported
}
