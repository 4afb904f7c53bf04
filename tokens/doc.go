// Package tokens estimates token counts for prompts and replies.
//
// Estimation uses the rule of thumb that about 4 characters make 1 token
// for English text. It is used when a model reply reports no usage:
//
//	usage := tokens.EstimateUsage(system+prompt, reply)
//
// Context window sizes for the supported models are in ModelLimits:
//
//	limit := tokens.GetModelLimit("deepseek-chat")  // 64000
//	limit := tokens.GetModelLimit("unknown")        // 100000 (default)
package tokens
