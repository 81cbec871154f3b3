// Package extraction implements the text-to-order pipeline: free-text
// input describing a set of products is chunked when oversized, each
// chunk is run through the generation model with a fixed extraction
// prompt, and the model's response is parsed and shape-validated into a
// merged {products: [...]} document.
package extraction
