package domain

import (
	"github.com/aws/aws-lambda-go/events"
)

// TriggerContext is the raw request-context block of a trigger payload,
// carried on the Request untouched. The set of implementations is closed:
// exactly one concrete context type exists per trigger family. Handler code
// reaches variant-specific fields by type assertion, or through the
// comma-ok accessors on Request for the common ones.
type TriggerContext interface {
	isTriggerContext()
}

// ALBContext is the request context of an Application Load Balancer
// target-group event.
type ALBContext struct {
	events.ALBTargetGroupRequestContext
}

// GatewayContext is the request context shared by API Gateway REST and
// HTTP API payload format 1.0 events.
type GatewayContext struct {
	events.APIGatewayProxyRequestContext
}

// HTTPContext is the request context of an HTTP API payload format 2.0 or
// function URL event.
type HTTPContext struct {
	events.APIGatewayV2HTTPRequestContext
}

// WebSocketContext is the request context of a WebSocket route event.
type WebSocketContext struct {
	events.APIGatewayWebsocketProxyRequestContext
}

// LatticeContext is the request context of a VPC Lattice service event.
type LatticeContext struct {
	LatticeRequestContext
}

func (*ALBContext) isTriggerContext()       {}
func (*GatewayContext) isTriggerContext()   {}
func (*HTTPContext) isTriggerContext()      {}
func (*WebSocketContext) isTriggerContext() {}
func (*LatticeContext) isTriggerContext()   {}

// LatticeRequestContext mirrors the requestContext block of a VPC Lattice
// event. The events package carries no Lattice types, so the shape is
// defined here.
type LatticeRequestContext struct {
	ServiceNetworkARN string          `json:"serviceNetworkArn,omitempty"`
	ServiceARN        string          `json:"serviceArn,omitempty"`
	TargetGroupARN    string          `json:"targetGroupArn,omitempty"`
	Identity          LatticeIdentity `json:"identity"`
	Region            string          `json:"region,omitempty"`
	TimeEpoch         string          `json:"timeEpoch,omitempty"`
}

// LatticeIdentity describes the caller of a VPC Lattice service, including
// the mTLS certificate attributes when client authentication is enabled.
type LatticeIdentity struct {
	SourceVPCARN   string `json:"sourceVpcArn,omitempty"`
	Type           string `json:"type,omitempty"`
	Principal      string `json:"principal,omitempty"`
	PrincipalOrgID string `json:"principalOrgId,omitempty"`
	SessionName    string `json:"sessionName,omitempty"`
	X509IssuerOU   string `json:"x509IssuerOu,omitempty"`
	X509SANDNS     string `json:"x509SanDns,omitempty"`
	X509SANNameCN  string `json:"x509SanNameCn,omitempty"`
	X509SANURI     string `json:"x509SanUri,omitempty"`
	X509SubjectCN  string `json:"x509SubjectCn,omitempty"`
}
