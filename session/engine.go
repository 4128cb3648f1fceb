// Package session implements the PTP protocol/session engine: session
// lifecycle, transaction ID allocation, three-phase transaction
// execution and event fan-out, on top of a usbtransport.Transport and a
// registry.Registry.
package session

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/ptphost/go-ptp/ptperr"
	"github.com/ptphost/go-ptp/registry"
	"github.com/ptphost/go-ptp/wire"
)

// transport is the subset of usbtransport.Transport the engine needs;
// declared here so tests substitute a scripted mock transport instead
// of a real USB device, per the end-to-end scenarios the engine must
// satisfy.
type transport interface {
	Send(ctx context.Context, c *wire.Container) error
	Receive(ctx context.Context, maxLength int) ([]byte, error)
	OnEvent(code uint16, handler func(code uint16, transactionID uint32, params []uint32))
	Cancel(transactionID uint32) error
}

const transactionIDSentinel uint32 = 0xFFFFFFFF

// defaultDataBufferSize bounds a single Receive call; large transfers
// are read by the camera layer issuing repeated partial-object
// operations with explicit offsets instead of one oversized read.
const defaultDataBufferSize = 16 * 1024 * 1024

// Result is the outcome of one protocol transaction.
type Result struct {
	ResponseCode uint16
	Params       []uint32
	Data         []byte
}

// Engine owns session state (session ID, transaction counter, event
// subscribers) for one connected camera. Only one transaction may be
// outstanding at a time; callers must not invoke SendOperation
// concurrently from multiple goroutines on the same Engine.
type Engine struct {
	log       *log.Logger
	transport transport
	registry  *registry.Registry

	mu             sync.Mutex
	sessionID      uint32
	open           bool
	nextTxID       uint32

	subMu       sync.Mutex
	subscribers map[string][]func(params []uint32)
	pending     map[string][]uint32
}

// New builds an Engine over an already-connected transport and a
// registry (generic or vendor-merged).
func New(t transport, r *registry.Registry, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(os.Stderr, "session: ", log.LstdFlags)
	}
	e := &Engine{
		log:         logger,
		transport:   t,
		registry:    r,
		subscribers: make(map[string][]func(params []uint32)),
		pending:     make(map[string][]uint32),
	}
	e.wireEvents()
	return e
}

func (e *Engine) wireEvents() {
	for _, code := range registry.AllEventCodes(e.registry) {
		e.transport.OnEvent(code, func(c uint16, transactionID uint32, params []uint32) {
			e.onEvent(c, params)
		})
	}
}

func (e *Engine) onEvent(code uint16, params []uint32) {
	ev, err := e.registry.EventByCode(code)
	if err != nil {
		return
	}
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.pending[ev.Name] = append(e.pending[ev.Name], params...)
	for _, h := range e.subscribers[ev.Name] {
		h(params)
	}
}

// On registers a handler invoked whenever an event with the given name
// is delivered.
func (e *Engine) On(eventName string, handler func(params []uint32)) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.subscribers[eventName] = append(e.subscribers[eventName], handler)
}

// Off removes all handlers registered for eventName.
func (e *Engine) Off(eventName string) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	delete(e.subscribers, eventName)
}

// SessionID returns the currently open session ID, or 0 if none is open.
func (e *Engine) SessionID() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

// IsOpen reports whether a session is currently open.
func (e *Engine) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

// OpenSession opens a session with the given ID, auto-recovering once
// from SessionAlreadyOpen by closing and reopening.
func (e *Engine) OpenSession(ctx context.Context, sessionID uint32) error {
	if err := e.openSessionOnce(ctx, sessionID); err != nil {
		if perr, ok := err.(*ptperr.PtpError); ok && perr.ResponseCode == registry.RespSessionAlreadyOpen {
			if cerr := e.CloseSession(ctx); cerr != nil {
				e.log.Printf("close before reopen: %v", cerr)
			}
			if err2 := e.openSessionOnce(ctx, sessionID); err2 != nil {
				return &ptperr.SessionError{Kind: ptperr.SessionAlreadyOpenRecoveryFailed, Err: err2}
			}
			return nil
		}
		return &ptperr.SessionError{Kind: ptperr.SessionOpenFailed, Err: err}
	}
	return nil
}

func (e *Engine) openSessionOnce(ctx context.Context, sessionID uint32) error {
	e.mu.Lock()
	e.nextTxID = 0
	e.mu.Unlock()

	op, err := e.registry.OperationByName("OpenSession")
	if err != nil {
		return err
	}
	res, err := e.execute(ctx, op, []uint32{sessionID}, nil, 0)
	if err != nil {
		return err
	}
	if res.ResponseCode != registry.RespOK {
		resp, _ := e.registry.ResponseByCode(res.ResponseCode)
		return &ptperr.PtpError{Kind: ptperr.PtpResponseError, ResponseCode: res.ResponseCode, ResponseName: resp.Name, Params: res.Params}
	}
	e.mu.Lock()
	e.sessionID = sessionID
	e.open = true
	e.mu.Unlock()
	return nil
}

// CloseSession best-effort closes the session; SessionNotOpen is treated
// as success. State always transitions to closed, even on error.
func (e *Engine) CloseSession(ctx context.Context) error {
	defer func() {
		e.mu.Lock()
		e.open = false
		e.sessionID = 0
		e.mu.Unlock()
	}()

	op, err := e.registry.OperationByName("CloseSession")
	if err != nil {
		return err
	}
	res, err := e.execute(ctx, op, nil, nil, 0)
	if err != nil {
		return err
	}
	if res.ResponseCode != registry.RespOK && res.ResponseCode != registry.RespSessionNotOpen {
		resp, _ := e.registry.ResponseByCode(res.ResponseCode)
		return &ptperr.PtpError{Kind: ptperr.PtpResponseError, ResponseCode: res.ResponseCode, ResponseName: resp.Name, Params: res.Params}
	}
	return nil
}

// SendOperation executes the named operation's three-phase transaction
// and returns the raw result. dataIn is sent verbatim when the
// operation's data direction is In; maxDataLength bounds the Data
// container read when the direction is Out (0 selects a default cap).
func (e *Engine) SendOperation(ctx context.Context, name string, params []uint32, dataIn []byte, maxDataLength int) (*Result, error) {
	op, err := e.registry.OperationByName(name)
	if err != nil {
		return nil, err
	}
	return e.execute(ctx, op, params, dataIn, maxDataLength)
}

func (e *Engine) execute(ctx context.Context, op *registry.Operation, params []uint32, dataIn []byte, maxDataLength int) (_ *Result, err error) {
	txID := e.nextTransactionID()
	// A transaction abandoned because ctx was cancelled is also cancelled
	// on the device, via the transport's Cancel Request.
	defer func() {
		if err != nil && ctx.Err() != nil {
			if cerr := e.transport.Cancel(txID); cerr != nil {
				e.log.Printf("cancel tx=%d: %v", txID, cerr)
			}
		}
	}()
	e.log.Printf("[%s] tx=%d op=%s params=%v", newCorrelationID(), txID, op.Name, params)

	cmd := &wire.Container{
		Type:          wire.ContainerCommand,
		Code:          op.Code,
		TransactionID: txID,
		Payload:       wire.EncodeParams(params),
	}
	if err := e.transport.Send(ctx, cmd); err != nil {
		return nil, err
	}

	var data []byte
	switch op.DataDirection {
	case registry.DataIn:
		dc := &wire.Container{
			Type:          wire.ContainerData,
			Code:          op.Code,
			TransactionID: txID,
			Payload:       dataIn,
		}
		if err := e.transport.Send(ctx, dc); err != nil {
			return nil, err
		}
	case registry.DataOut:
		bufCap := maxDataLength
		if bufCap <= 0 {
			bufCap = defaultDataBufferSize
		}
		raw, err := e.transport.Receive(ctx, bufCap)
		if err != nil {
			return nil, err
		}
		c, err := wire.ParseContainer(raw)
		if err != nil {
			return nil, err
		}
		if c.Type != wire.ContainerData {
			return nil, &ptperr.PtpError{Kind: ptperr.PtpUnexpectedContainerType}
		}
		if c.TransactionID != txID {
			return nil, &ptperr.PtpError{Kind: ptperr.PtpTransactionIDMismatch}
		}
		data = c.Payload
	}

	respRaw, err := e.transport.Receive(ctx, wire.ContainerHeaderSize+5*4)
	if err != nil {
		return nil, err
	}
	resp, err := wire.ParseContainer(respRaw)
	if err != nil {
		return nil, err
	}
	if resp.Type != wire.ContainerResponse {
		return nil, &ptperr.PtpError{Kind: ptperr.PtpUnexpectedContainerType}
	}

	return &Result{
		ResponseCode: resp.Code,
		Params:       wire.DecodeParams(resp.Payload),
		Data:         data,
	}, nil
}

// nextTransactionID allocates the next transaction ID, wrapping at 2^32
// and skipping the reserved sentinel.
func (e *Engine) nextTransactionID() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextTxID
	e.nextTxID++
	if e.nextTxID == transactionIDSentinel {
		e.nextTxID = 0
	}
	return id
}

// Cancel issues a transport-level Cancel Request for the given
// transaction ID.
func (e *Engine) Cancel(transactionID uint32) error {
	return e.transport.Cancel(transactionID)
}

// newCorrelationID returns a fresh correlation identifier logged
// alongside a transaction for cross-referencing multi-step vendor auth
// exchanges (Sony's three SDIO_Connect phases).
func newCorrelationID() string {
	return uuid.NewString()
}
