package buildsvc

import (
	"fmt"

	"github.com/nervapy-go/armgen/function"
)

func toBuildResponse(name string, res *function.Result) *BuildResponse {
	bindings := make([]BindingView, len(res.Bindings))
	for i, b := range res.Bindings {
		bindings[i] = BindingView{Virtual: b.Virtual.String(), Physical: b.Physical.String()}
	}
	return &BuildResponse{
		Name:        name,
		Assembly:    res.Assembly,
		Bindings:    bindings,
		PrologueLen: res.PrologueLen,
	}
}

// Run drives req through the same pipeline the HTTP service uses, without
// any networking: for cmd/armgen-inspect and other embedders that want a
// function.Result straight from a declarative BuildRequest.
func Run(req BuildRequest) (*function.Result, error) {
	b := NewBroadcaster()
	defer b.Close()
	return runBuild("", req, b)
}

// runBuild drives one request through function.Begin, the translated
// instruction list, and FinishDetailed, broadcasting stage events along the
// way for sessionID's subscribers (sessionID is "" for the stateless
// one-shot endpoint, which still broadcasts so any all-sessions subscriber
// sees it).
func runBuild(sessionID string, req BuildRequest, b *Broadcaster) (*function.Result, error) {
	abiVal, err := resolveABI(req.ABI)
	if err != nil {
		return nil, err
	}
	target, err := resolveTarget(req.Target)
	if err != nil {
		return nil, err
	}
	dialectVal, err := resolveDialect(req.Dialect)
	if err != nil {
		return nil, err
	}
	strategy, err := resolveHighRegStrategy(req.HighRegStrategy)
	if err != nil {
		return nil, err
	}

	b.BroadcastStage(sessionID, "begin", "start")
	fn, err := function.Begin(function.Config{
		Name:              req.Name,
		Arguments:         argSpecsToABI(req.Arguments),
		ABI:               abiVal,
		Target:            target,
		Dialect:           dialectVal,
		Strategy:          strategy,
		ValidateAlignment: req.ValidateAlignment,
		IsThumb:           req.IsThumb,
		Alignment:         req.Alignment,
		Preserve8:         req.Preserve8,
	})
	if err != nil {
		b.BroadcastStage(sessionID, "begin", "failed")
		return nil, err
	}
	fn.Imports(req.Imports...)
	b.BroadcastStage(sessionID, "begin", "done")

	b.BroadcastStage(sessionID, "translate", "start")
	tr := newTranslator(fn)
	for i, op := range req.Instructions {
		if err := tr.apply(op); err != nil {
			b.BroadcastStage(sessionID, "translate", "failed")
			return nil, fmt.Errorf("instruction %d (%s): %w", i, op.Op, err)
		}
	}
	b.BroadcastStage(sessionID, "translate", "done")

	b.BroadcastStage(sessionID, "pipeline", "start")
	res, err := fn.FinishDetailed()
	if err != nil {
		b.BroadcastStage(sessionID, "pipeline", "failed")
		return nil, err
	}
	b.BroadcastStage(sessionID, "pipeline", "done")

	return res, nil
}
