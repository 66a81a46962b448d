package cache

import (
	"fmt"
	"strings"
)

type EntityType string

const (
	EntityCoupon EntityType = "coupon"
	EntityStats  EntityType = "stats"
)

type KeyType string

const (
	KeyID       KeyType = "id"
	KeyCode     KeyType = "code"
	KeyUser     KeyType = "user"
	KeyMerchant KeyType = "merchant"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}

func CouponByID(id uint) string {
	return GenerateKey(EntityCoupon, KeyID, id)
}

// CouponByCode normalizes the code so lookups are case-insensitive.
func CouponByCode(code string) string {
	return GenerateKey(EntityCoupon, KeyCode, strings.ToUpper(code))
}

func UserStats(userID uint) string {
	return GenerateKey(EntityStats, KeyUser, userID)
}

func MerchantStats(merchantID uint) string {
	return GenerateKey(EntityStats, KeyMerchant, merchantID)
}
