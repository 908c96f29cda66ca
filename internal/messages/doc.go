// Package messages defines how errors and results travel between the layers
// of ktopo.
//
// # Data Layer (internal/k8s, internal/topology, internal/pipeline)
//
// Return standard Go errors wrapped with %w and the failed operation:
//
//	if err != nil {
//	    return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
//	}
//
// Transform never fails. Kinds that could not be listed are reported through
// Resources.LoadErrors and logged at debug level, and the topology is built
// from whatever did load.
//
// # Operation Layer (copy, connect, filter toggles)
//
// Return a tea.Cmd producing a StatusMsg. Use ErrorCmd, SuccessCmd and
// InfoCmd so every operation reports back the same way:
//
//	text, err := commands.CopyToClipboard(copyFn, "route URL", url)
//	if err != nil {
//	    return messages.ErrorCmd("Copy failed: %v", err)
//	}
//	return messages.SuccessCmd("%s", text)
//
// # UI Layer (internal/app, internal/components, internal/screens)
//
// The app shows StatusMsg in the status bar and clears it after
// components.StatusBarDisplayDuration. Screens never format errors
// themselves.
//
// # HTTP Layer (internal/server)
//
// Handlers map errors to status codes once, at the edge, and answer with
// {"error": "..."} bodies. Validation failures wrap
// topology.ErrInvalidConnection so they can be told apart from API errors.
//
// # Error Message Guidelines
//
// Be specific and start with what failed:
//   - "Copy failed: no route URL to copy"
//   - "failed to parse /home/me/.config/ktopo/config.yaml: ..."
//
// Avoid vague messages like "Error" and never show stack traces.
package messages
