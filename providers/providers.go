// Package providers registers all known LLM providers.
// Import this package to make all providers available via provider.New():
//
//	import _ "github.com/promptuner/promptuner/providers"
package providers

import (
	_ "github.com/promptuner/promptuner/openai"
)
