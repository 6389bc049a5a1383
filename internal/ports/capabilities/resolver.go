package capabilities

import (
	"context"

	"dog-walk-service/internal/ports/auth"
)

type Capability string

const (
	DogsManage    Capability = "dogs:manage"
	WalksRequest  Capability = "walks:request"
	WalksAccept   Capability = "walks:accept"
	WalksRate     Capability = "walks:rate"
	WalksApply    Capability = "walks:apply"
	WalksComplete Capability = "walks:complete"
	WalksSummary  Capability = "walks:summary"
)

type CapabilityCheck struct {
	UserID     string
	Role       auth.Role
	Capability Capability
}

type CapabilitiesResolver interface {
	HasFeature(ctx context.Context, in CapabilityCheck) (bool, error)
}
