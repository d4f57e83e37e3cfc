// file: internal/bot/texts.go
// version: 1.0.0
// guid: 3c4d5e6f-7a8b-9c0d-1e2f-3a4b5c6d7e8f

package bot

import "strings"

// helpText renders the /help message with the configured command suffix.
func helpText(suffix string) string {
	text := `<b>🎵 Streamrip Bot - Music Downloader</b>

<b>📥 Download Commands:</b>
• <code>/streamrip$</code> - Mirror music to cloud storage
• <code>/streamripleech$</code> - Leech music to Telegram
• <code>/streamripsearch$</code> - Search music across platforms

<b>🔍 Short Commands:</b>
• <code>/sr$</code> - Mirror music (short)
• <code>/srleech$</code> - Leech music (short)
• <code>/srsearch$</code> - Search music (short)

<b>📋 Usage Examples:</b>
• <code>/sr$ https://qobuz.com/album/...</code>
• <code>/srleech$ -q 3 -c flac https://tidal.com/...</code>
• <code>/srsearch$ artist name - album title</code>

<b>🎛️ Quality Options:</b>
• <code>-q 0</code> - 128 kbps (Low)
• <code>-q 1</code> - 320 kbps (High)
• <code>-q 2</code> - CD Quality (FLAC)
• <code>-q 3</code> - Hi-Res (24-bit)
• <code>-q 4</code> - Hi-Res+ (192kHz)

<b>🎵 Format Options:</b>
• <code>-c flac</code> - FLAC (Lossless)
• <code>-c mp3</code> - MP3 (Lossy)
• <code>-c m4a</code> - M4A/AAC (Lossy)

<b>🎧 Supported Platforms:</b>
🟦 <b>Qobuz</b> - Up to 24-bit/192kHz FLAC
⚫ <b>Tidal</b> - MQA and Hi-Res FLAC
🟣 <b>Deezer</b> - CD Quality FLAC
🟠 <b>SoundCloud</b> - MP3 320kbps

<b>⚙️ General Commands:</b>
• <code>/status$</code> - Show download status
• <code>/settings$</code> - Configure bot settings
• <code>/cancel$</code> - Cancel current download
• <code>/cancelall$</code> - Cancel all downloads
• <code>/help$</code> - Show this help message

<b>💡 Tips:</b>
• Use quality selector if no quality specified
• Supports batch downloads from pasted URL lists
• Last.fm playlists are converted automatically
• Premium subscriptions required for high quality

<b>🔗 Example URLs:</b>
• Qobuz: <code>https://qobuz.com/album/...</code>
• Tidal: <code>https://tidal.com/browse/album/...</code>
• Deezer: <code>https://deezer.com/album/...</code>
• SoundCloud: <code>https://soundcloud.com/artist/track</code>`
	return strings.ReplaceAll(text, "$", suffix)
}

// startText renders the /start message with the configured command suffix.
func startText(suffix string) string {
	text := `<b>🎵 Welcome to Streamrip Bot!</b>

This bot can download high-quality music from various streaming platforms.

<b>🚀 Quick Start:</b>
1. Send a music URL from supported platforms
2. Choose quality and format (or use defaults)
3. Get your music in high quality!

<b>📋 Commands:</b>
• <code>/sr$</code> - Download music
• <code>/srsearch$</code> - Search for music
• <code>/help$</code> - Show detailed help

<b>🎧 Supported Platforms:</b>
🟦 Qobuz • ⚫ Tidal • 🟣 Deezer • 🟠 SoundCloud

Type <code>/help$</code> for detailed usage instructions.`
	return strings.ReplaceAll(text, "$", suffix)
}

// usageText is the reply to a download command with no arguments.
func usageText(suffix string) string {
	text := `❌ Please provide a streamrip URL or search query!

📋 <b>Usage:</b>
• <code>/streamrip$ https://qobuz.com/album/...</code>
• <code>/streamrip$ search query</code>
• <code>/streamrip$ -q 3 -c flac https://...</code>

🎵 <b>Supported platforms:</b>
🟦 Qobuz • ⚫ Tidal • 🟣 Deezer • 🟠 SoundCloud`
	return strings.ReplaceAll(text, "$", suffix)
}

// searchUsageText is the reply to a search command with no query.
func searchUsageText(suffix string) string {
	text := `❌ Please provide a search query!

📋 <b>Usage:</b>
• <code>/streamripsearch$ artist name</code>
• <code>/streamripsearch$ album title</code>
• <code>/streamripsearch$ track name</code>`
	return strings.ReplaceAll(text, "$", suffix)
}
