package cache

// KEY_CARTS is the cache key for a user's cart, formatted with the user id.
const KEY_CARTS = "carts:%s"
