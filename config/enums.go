package config

// Strategy used to find the cut point of an overflowing paragraph.
// ENUM(linear, bisect)
type SearchMode int
