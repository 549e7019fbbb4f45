//go:build !menudebug

package menu

const debugAssertions = false
