// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis session-token cache keys.
const AuthCachePrefix = "auth:"

// RegistrationSessionPrefix is the prefix for wizard session keys.
const RegistrationSessionPrefix = "regSession:"

// RegistrationSessionTTL is the sliding lifetime of a wizard session.
const RegistrationSessionTTL = 30 * time.Minute

// PendingPurchasePrefix is the prefix for stashed purchase-intent keys.
const PendingPurchasePrefix = "pendingPurchase:"

// PendingPurchaseTTL bounds how long a gateway redirect may take to return.
const PendingPurchaseTTL = 1 * time.Hour

// ConsumedTombstoneTTL is how long a consumed pending-purchase marker stays
// around so replayed callbacks can be told apart from unknown references.
const ConsumedTombstoneTTL = 1 * time.Hour
