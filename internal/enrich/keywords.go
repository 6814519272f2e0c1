// Package enrich derives technology tags from item text via a declarative
// keyword table. It is classification-adjacent enrichment and deliberately
// lives outside the dedup/assembler core.
package enrich

import (
	"sort"
	"strings"
)

// triggers maps a tag to the lowercase keywords that imply it.
var triggers = map[string][]string{
	"python":     {"python", "pypi", "cpython"},
	"javascript": {"javascript", "typescript", "node.js", "nodejs", "npm"},
	"go":         {"golang", " go 1.", "go module"},
	"rust":       {"rust", "cargo", "crates.io"},
	"pytorch":    {"pytorch", "torch"},
	"tensorflow": {"tensorflow", "keras"},
	"llm":        {"llm", "large language model", "gpt", "claude", "gemini", "llama", "mistral"},
	"cuda":       {"cuda", "gpu kernel", "nvidia"},
	"kubernetes": {"kubernetes", "k8s", "helm"},
	"docker":     {"docker", "container image", "dockerfile"},
	"security":   {"cve-", "vulnerability", "security advisory", "exploit"},
	"database":   {"postgres", "postgresql", "sqlite", "mysql", "vector database"},
	"api":        {"rest api", "graphql", "grpc", "sdk"},
}

// Tags evaluates the trigger table as a pure function over the given texts
// (normalized to lowercase) and returns the matched tags sorted for
// deterministic output.
func Tags(texts ...string) []string {
	haystack := strings.ToLower(strings.Join(texts, " "))
	if haystack == "" {
		return nil
	}

	var tags []string
	for tag, keywords := range triggers {
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				tags = append(tags, tag)
				break
			}
		}
	}

	sort.Strings(tags)
	return tags
}
