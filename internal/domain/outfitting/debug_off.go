//go:build !outfitdebug

package outfitting

const debugAssertions = false
