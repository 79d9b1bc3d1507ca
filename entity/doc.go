// Package entity normalizes identity across heterogeneous platform records.
//
// Platforms return entities as open key/value bags with no shared schema:
// one platform calls its identifier "id", another "standard_id", a third
// "entity_id". This package is the only code allowed to interpret record
// shapes. It does so exclusively through named accessor functions with
// fixed, ordered candidate-field lists; the first present field wins, and
// the precedence order is part of the compatibility contract with callers
// ("the more specific field wins").
//
// Records from the OpenAEV platform come in distinct kinds (assets, teams,
// scenarios, simulations and so on), each with its own field layout. The
// OAEV* functions dispatch on an explicit Kind tag rather than sniffing the
// record, and apply kind-specific candidate lists, fallback labels, deep
// link paths and palette colors.
package entity
