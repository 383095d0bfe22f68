// Package platform provides the source-specific listing and resolving
// implementations behind the playlist.Lister and media.Resolver
// interfaces.
//
// Two sources are supported:
//
//   - YouTube playlists, via the kkdai/youtube client. YouTubeLister
//     expands a playlist ID into its entries; YouTubeResolver picks a
//     progressive format and resolves a direct stream URL.
//
//   - Plain HTTP index pages, via goquery. HTMLIndexLister scrapes
//     anchor tags pointing at media files; DirectResolver probes each
//     URL with a HEAD request.
//
// # Usage
//
//	lister := platform.NewYouTubeLister()
//	items, err := lister.Resolve(ctx, "PLabc123", playlist.Options{Limit: 50})
//
//	resolver := platform.NewYouTubeResolver()
//	info, err := resolver.Resolve(ctx, items[0].URL, media.Options{Quality: "720p"})
package platform
