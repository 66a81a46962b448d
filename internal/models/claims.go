package models

import "github.com/golang-jwt/jwt/v5"

// Roles carried in access tokens.
const (
	RoleUser     = "user"
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)

// Application permissions
const (
	PermissionWalletRead       = "wallet:read"
	PermissionWalletWrite      = "wallet:write"
	PermissionWalletCredit     = "wallet:credit"
	PermissionCouponRedeem     = "coupon:redeem"
	PermissionCouponManage     = "coupon:manage"
	PermissionRedemptionManage = "redemption:manage"
	PermissionPaymentWrite     = "payment:write"
	PermissionPaymentReverse   = "payment:reverse"
	PermissionStatsRead        = "stats:read"
)

// UserClaims is issued by the external auth service. MerchantID is set only
// for merchant accounts.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID      uint     `json:"user_id"`
	MerchantID  uint     `json:"merchant_id,omitempty"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	perms := c.Permissions
	if len(perms) == 0 {
		perms = GetDefaultPermissions(c.Role)
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionWalletCredit,
			PermissionStatsRead,
		}
	case RoleMerchant:
		return []string{
			PermissionWalletRead,
			PermissionCouponManage,
			PermissionRedemptionManage,
			PermissionPaymentReverse,
			PermissionStatsRead,
		}
	case RoleUser:
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionCouponRedeem,
			PermissionPaymentWrite,
			PermissionStatsRead,
		}
	default:
		return []string{}
	}
}
