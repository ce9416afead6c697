package featureflags

import (
	"context"
	"errors"
	"log"

	"github.com/rollout/rox-go/v5/server"
)

// Flags holds the runtime switches for the deliberately-hardened behaviors.
// The permissive defaults reproduce the observed behavior of the storefront;
// flipping a flag opts into the stricter mode.
type Flags struct {
	// Offline blocks every non-health endpoint with 503.
	Offline server.RoxFlag
	// StrictStatusFlow guards order status transitions
	// (pending -> completed/cancelled, terminal states final).
	StrictStatusFlow server.RoxFlag
	// VerifyTotals makes order creation recompute and check totalAmount.
	VerifyTotals server.RoxFlag
}

// Defaults seed the flag values used until (and unless) the Rollout SDK is
// configured, so env-only deployments still get working switches.
type Defaults struct {
	StrictStatusFlow bool
	VerifyTotals     bool
}

var (
	flags *Flags
	rox   *server.Rox
)

var ErrNoAPIKey = errors.New("rollout api key not set")

// Init registers the flag container and, when a key is supplied, connects to
// Rollout. Callers treat a returned error as non-fatal: registered flags keep
// serving their defaults.
func Init(ctx context.Context, apiKey string, defaults Defaults) error {
	flags = &Flags{
		Offline:          server.NewRoxFlag(false),
		StrictStatusFlow: server.NewRoxFlag(defaults.StrictStatusFlow),
		VerifyTotals:     server.NewRoxFlag(defaults.VerifyTotals),
	}

	rox = server.NewRox()
	rox.Register("storefront", flags)

	if apiKey == "" {
		return ErrNoAPIKey
	}

	options := server.NewRoxOptions(server.RoxOptionsBuilder{})
	done := rox.Setup(apiKey, options)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Values returns the registered container. Init must have been called.
func Values() *Flags {
	if flags == nil {
		log.Panicln("featureflags: Values called before Init")
	}
	return flags
}

func Shutdown() {
	if rox != nil {
		<-rox.Shutdown()
	}
}
