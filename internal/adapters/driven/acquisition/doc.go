// Package acquisition routes media acquisition to a concrete backend by
// source URL scheme: file:// URLs are served from the local filesystem,
// everything else goes through yt-dlp.
package acquisition
