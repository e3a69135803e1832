// Package hub lists repository files through the Hugging Face Hub tree API
// and builds the resolve URLs the download engine fetches.
package hub
