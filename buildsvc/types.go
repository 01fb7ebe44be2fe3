package buildsvc

import "time"

// ArgumentSpec declares one function argument in a build request, mirroring
// abi.ArgType but over the wire as plain JSON.
type ArgumentSpec struct {
	Width int    `json:"width"` // 1, 2, 4 or 8 bytes
	Name  string `json:"name"`
}

// InstructionOp is one step of a build request's instruction list: a
// mnemonic plus the named virtual registers and immediate it operates on.
// "dst"/"a"/"b"/"src"/"base" name virtual registers the session allocates
// on first use; "arg:<name>" as a source loads a declared argument instead.
type InstructionOp struct {
	Op     string `json:"op"`               // catalog mnemonic: mov, movimm, add, sub, and, orr, cmp, mul, ldr, str, bx, label, branch, return
	Dst    string `json:"dst,omitempty"`
	Src    string `json:"src,omitempty"`
	A      string `json:"a,omitempty"`
	B      string `json:"b,omitempty"`
	Base   string `json:"base,omitempty"`
	Imm    *int32 `json:"imm,omitempty"`
	Label  string `json:"label,omitempty"`
	Target string `json:"target,omitempty"`
	Cond   bool   `json:"cond,omitempty"`
}

// BuildRequest is the full declarative description of one function build.
type BuildRequest struct {
	Name              string          `json:"name"`
	Arguments         []ArgumentSpec  `json:"arguments,omitempty"`
	ABI               string          `json:"abi,omitempty"`               // "arm_gnueabi" or "arm_gnueabihf"
	Target            string          `json:"target,omitempty"`            // arch.Microarchitecture name
	Dialect           string          `json:"dialect,omitempty"`           // "gas" or "armcc"
	HighRegStrategy   string          `json:"highRegStrategy,omitempty"`   // "push_w", "stmdb", "auto"
	ValidateAlignment bool            `json:"validateAlignment,omitempty"`
	IsThumb           bool            `json:"isThumb,omitempty"`
	Alignment         int             `json:"alignment,omitempty"`
	Preserve8         bool            `json:"preserve8,omitempty"`
	Imports           []string        `json:"imports,omitempty"`
	Instructions      []InstructionOp `json:"instructions"`
}

// BindingView is one virtual-to-physical register assignment in a build
// response, over the wire.
type BindingView struct {
	Virtual  string `json:"virtual"`
	Physical string `json:"physical"`
}

// BuildResponse is a completed build's result, serialized for the HTTP
// client. WebSocket stage events carry only a stage name and status.
type BuildResponse struct {
	Name        string        `json:"name"`
	Assembly    string        `json:"assembly"`
	Bindings    []BindingView `json:"bindings"`
	PrologueLen int           `json:"prologueLen"`
	Diagnostics []string      `json:"diagnostics,omitempty"`
}

// SessionView is a build session's externally visible state.
type SessionView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	Status    string     `json:"status"` // "pending", "built", "failed"
	Error     string     `json:"error,omitempty"`
	Result    *BuildResponse `json:"result,omitempty"`
}
