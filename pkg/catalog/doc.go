// Package catalog persists the tradeable universe (assets, settlement
// currencies, expiry cadences) in an embedded SQLite database.
//
// The start command seeds the catalog from a validated configuration,
// replacing the previous contents wholesale. Readers get the last
// successfully validated universe even while a broken configuration
// sits on disk.
package catalog
