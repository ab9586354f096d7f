// Package services provides domain services that implement business operations
// spanning more than one aggregate, or that need storage access through a narrow
// interface.
//
// The package includes:
//   - DeliveryScheduler: pure delivery day and order deadline arithmetic driven by a rule table
//   - ZoneResolver: postal code normalization, zone lookup and delivery fee quoting
//   - InventoryLedger: single meal SET/ADD/SUBTRACT with low stock signalling
//   - ReservationService: all-or-nothing reservation of several meals, and its release
//   - OrderNumberGenerator: day scoped, storage backed order numbers
//
// Services that touch storage receive it per call (MealStore, ZoneDirectory,
// SequenceSource) so the caller decides which transaction they run in.
package services
