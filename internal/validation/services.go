package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/logger"
	"go.uber.org/zap"
)

// Check probes one backing service
type Check func(ctx context.Context) error

// ServiceValidator verifies required services at startup
type ServiceValidator struct {
	requiredServices []string
	checks           map[string]Check
	timeout          time.Duration
}

// NewServiceValidator creates a validator for the named services
func NewServiceValidator(required []string) *ServiceValidator {
	return &ServiceValidator{
		requiredServices: required,
		checks:           make(map[string]Check),
		timeout:          10 * time.Second,
	}
}

// Register adds a check under a service name
func (sv *ServiceValidator) Register(name string, check Check) {
	sv.checks[name] = check
}

// ValidateServices runs the check of every required service and stops at the first failure
func (sv *ServiceValidator) ValidateServices(ctx context.Context) error {
	if len(sv.requiredServices) == 0 {
		logger.Log.Info("No required services configured for validation")
		return nil
	}

	for _, name := range sv.requiredServices {
		check, ok := sv.checks[name]
		if !ok {
			logger.Log.Warn("Unknown service type in validation", zap.String("service", name))
			continue
		}

		timeoutCtx, cancel := context.WithTimeout(ctx, sv.timeout)
		err := check(timeoutCtx)
		cancel()
		if err != nil {
			logger.Log.Error("Required service validation failed", zap.String("service", name), zap.Error(err))
			return fmt.Errorf("required service %q validation failed: %w", name, err)
		}

		logger.Log.Info("Service validated", zap.String("service", name))
	}
	return nil
}
