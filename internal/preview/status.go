package preview

import (
	"sync"
	"time"

	"git.home.luguber.info/inful/griddle/internal/build"
)

// Status is the outcome of the most recent build, as served on StatusPath.
type Status struct {
	BuildID   string    `json:"build_id,omitempty"`
	Converted int       `json:"converted"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
	Error     string    `json:"error,omitempty"`
	Builds    int       `json:"builds"`
	Finished  time.Time `json:"finished"`
	// HasGoodBuild is true once any build completed without a setup error.
	HasGoodBuild bool `json:"has_good_build"`
}

type buildStatus struct {
	mu sync.RWMutex
	st Status
}

func (bs *buildStatus) record(report *build.Report, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.st.Builds++
	bs.st.Finished = time.Now()
	bs.st.Error = ""
	if report != nil {
		bs.st.BuildID = report.BuildID
		bs.st.Converted = report.Converted
		bs.st.Failed = report.Failed
		bs.st.Skipped = report.Skipped
	}
	if err != nil {
		bs.st.Error = err.Error()
		return
	}
	bs.st.HasGoodBuild = true
}

func (bs *buildStatus) get() Status {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.st
}
