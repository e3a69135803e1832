package platform

// Package platform contains OS integration glue: download directory
// helpers, safe path joining under the repository folder and opening
// folders in the system file manager.
