// Package front provides the public API for running function handlers
// behind trigger payload normalization. This is the stable API for
// external consumers.
package front

import (
	"github.com/lambdafront/lambdafront/internal/domain"
	"github.com/lambdafront/lambdafront/internal/runtime"
)

// Handler processes one canonical request per invocation.
// See internal/runtime.Handler for full documentation.
type Handler = runtime.Handler

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc = runtime.HandlerFunc

// Front attaches a handler to the function invocation loop.
type Front = runtime.Front

// Option is a functional option for configuring a Front.
type Option = runtime.Option

// Request is the canonical request handed to handlers, identical across
// trigger shapes.
type Request = domain.Request

// Response is the shape-independent response handlers return.
type Response = domain.Response

// Invocation carries per-invocation platform metadata.
type Invocation = domain.Invocation

// BodyDecoder parses raw request bodies for Request.Bind.
type BodyDecoder = domain.BodyDecoder

// Trigger tags the wire shape that produced a request.
type Trigger = domain.Trigger

const (
	TriggerALB         = domain.TriggerALB
	TriggerRest        = domain.TriggerRest
	TriggerHTTPV1      = domain.TriggerHTTPV1
	TriggerHTTPV2      = domain.TriggerHTTPV2
	TriggerWebSocket   = domain.TriggerWebSocket
	TriggerFunctionURL = domain.TriggerFunctionURL
	TriggerLattice     = domain.TriggerLattice
)

// Error is the error type every failure in the package carries.
type Error = domain.Error

// Kind classifies failures.
type Kind = domain.Kind

const (
	KindDecode           = domain.KindDecode
	KindMalformedPayload = domain.KindMalformedPayload
	KindPayloadDecode    = domain.KindPayloadDecode
	KindResponseEncode   = domain.KindResponseEncode
)

// New creates a Front around a handler.
// Example:
//
//	f, err := front.New(front.HandlerFunc(handle),
//	    front.WithStageStrip(),
//	)
var New = runtime.New

// Serve runs a handler in the platform invocation loop. Outside one, it
// performs a single local invocation from an event file when
// FRONT_EVENT_PATH is set.
var Serve = runtime.Serve

// Configuration options
var (
	WithStageStrip  = runtime.WithStageStrip
	WithLogger      = runtime.WithLogger
	WithBodyDecoder = runtime.WithBodyDecoder
)

// Response constructors
var (
	NewResponse    = domain.NewResponse
	TextResponse   = domain.TextResponse
	JSONResponse   = domain.JSONResponse
	BinaryResponse = domain.BinaryResponse
)
