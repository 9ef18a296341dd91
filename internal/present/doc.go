// Package present renders generated or evaluated documents: paragraph
// segmentation, score banding, clipboard copy and plain-text download.
package present
