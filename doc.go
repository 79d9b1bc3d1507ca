// Package nexus is the multi-platform aggregation core for security
// platform clients.
//
// Nexus lets an application that talks to several independently hosted
// security platforms (an OpenCTI threat-intelligence instance, an OpenAEV
// simulation instance, ...) treat them as one logical data source. Callers
// query, search and resolve entities without knowing how many platforms are
// configured or how each one names its fields.
//
// The core is built from small, flat packages:
//
//   - platform: static registry of platform definitions and prefixed-type
//     encoding
//   - entity: identity normalization over heterogeneous entity records
//   - client: the platform client capability contract and the ordered
//     client registry
//   - aggregate: parallel fan-out orchestration with per-call timeouts and
//     partial-failure isolation
//   - connect: connection testing from saved or temporary credentials
//   - settings: per-platform instance configuration records
//   - cache: optional Redis-backed memo of aggregation results
//   - probe: reachability checks and a renderable status type
//   - platformerr: the structured error taxonomy shared by all of the above
//
// The root package ties these together in a Hub. Every Hub operation
// returns a uniform Response envelope and never panics or leaks raw errors
// past their message text:
//
//	registry := client.NewRegistry()
//	registry.Set("octi-prod", openctiClient)
//	registry.Set("oaev-lab", openaevClient)
//
//	hub, err := nexus.New(registry,
//	    nexus.WithLogger(logger),
//	    nexus.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp := hub.FetchEntities(ctx)
//	if resp.Success {
//	    // partial data with per-platform failures listed alongside
//	}
package nexus
