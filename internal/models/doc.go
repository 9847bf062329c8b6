// Package models defines the core domain models for the shop.
//
// # Models
//
//   - User: Registered account, identified by a unique username
//   - Product: Catalog entry with an exact decimal price
//   - CartItem: One line of a user's cart (user + product + quantity)
//   - CartLine: A CartItem joined with its Product for display
//
// # Design Principles
//
//  1. **References by ID**: CartItem stores UserID and ProductID strings, never
//     pointers to other models, so the object graph has no cycles.
//  2. **Ownership lives in the schema**: a User owns its CartItems through
//     ON DELETE CASCADE; the User struct carries no item slice.
//  3. **Exact money**: prices and subtotals use decimal.Decimal, not float64.
package models
