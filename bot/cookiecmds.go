package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"github.com/99rahul8605-ops/Yt-v2/logging"
	"github.com/99rahul8605-ops/Yt-v2/service/youtube"
	"github.com/99rahul8605-ops/Yt-v2/utils"
)

const adminRequiredText = "❌ Admin access required for this command."

// Stable, always-public video used to verify cookies still work.
const cookiesTestURL = "https://www.youtube.com/watch?v=jNQXAC9IVRw"

var (
	btnDeleteCookiesYes = telebot.InlineButton{Unique: "delete_cookies_yes", Text: "✅ Yes, delete cookies"}
	btnDeleteCookiesNo  = telebot.InlineButton{Unique: "delete_cookies_no", Text: "❌ No, keep cookies"}
)

func (b *Bot) handleCookies(c telebot.Context) error {
	if !b.IsAllowed(c.Sender().ID) {
		return c.Send(notAuthorizedText)
	}

	if !b.store.Available() {
		return c.Send("🍪 *Cookies Status*\n\n"+
			"❌ *Status:* Not configured or invalid\n\n"+
			"*Without cookies:*\n"+
			"• Age-restricted videos will fail\n"+
			"• Some videos may require sign-in\n"+
			"• YouTube may block some requests\n\n"+
			"*To fix:*\nContact an admin to upload cookies.",
			&telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	}

	meta := b.store.Metadata()
	return c.Send(fmt.Sprintf("🍪 *Cookies Status*\n\n"+
		"✅ *Status:* Active and working\n"+
		"📁 *Location:* `%s`\n"+
		"📏 *Size:* %d bytes\n"+
		"📅 *Last Modified:* %s\n"+
		"🔄 *Format:* %s\n"+
		"📊 *Lines:* %d\n"+
		"🌐 *Domains:* %d\n\n"+
		"✅ *Age-restricted videos:* Supported",
		meta.Path, meta.Size, meta.Modified, meta.Format, meta.LineCount, meta.DomainCount),
		&telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
}

func (b *Bot) handleCookiesInfo(c telebot.Context) error {
	if !b.IsAdmin(c.Sender().ID) {
		return c.Send(adminRequiredText)
	}
	if !b.store.Available() {
		return c.Send("❌ No cookies file found.")
	}

	meta := b.store.Metadata()
	names := b.store.YouTubeCookieNames()

	var sb strings.Builder
	fmt.Fprintf(&sb, "🍪 *Detailed Cookies Information*\n\n")
	fmt.Fprintf(&sb, "*Path:* `%s`\n", meta.Path)
	fmt.Fprintf(&sb, "*Size:* %d bytes\n", meta.Size)
	fmt.Fprintf(&sb, "*Modified:* %s\n", meta.Modified)
	fmt.Fprintf(&sb, "*Format:* %s\n", meta.Format)
	fmt.Fprintf(&sb, "*Total Lines:* %d\n", meta.LineCount)
	fmt.Fprintf(&sb, "*Unique Domains:* %d\n", meta.DomainCount)
	fmt.Fprintf(&sb, "*YouTube Cookies Found:* %d\n\n", len(names))

	sb.WriteString("*Sample Lines:*\n")
	for i, line := range b.store.SampleLines(10) {
		if len(line) > 50 {
			line = line[:50] + "..."
		}
		fmt.Fprintf(&sb, "%d. `%s`\n", i+1, line)
	}

	if len(names) > 0 {
		sb.WriteString("\n*YouTube Cookie Names:*\n")
		shown := names
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for _, name := range shown {
			fmt.Fprintf(&sb, "• %s\n", name)
		}
		if len(names) > 10 {
			fmt.Fprintf(&sb, "• ... and %d more\n", len(names)-10)
		}
	}

	text := sb.String()
	if len(text) > 4000 { // Telegram message limit
		text = text[:4000]
	}
	return c.Send(text, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
}

func (b *Bot) handleCookiesUpload(c telebot.Context) error {
	userID := c.Sender().ID
	if !b.IsAdmin(userID) {
		return c.Send(adminRequiredText)
	}

	b.states.Set(userID, StateAwaitingCookiesFile)
	return c.Send("📤 *Upload Cookies File*\n\n"+
		"Please send me the `cookies.txt` file.\n\n"+
		"*Instructions:*\n"+
		"1. Export cookies from your browser using a cookies.txt extension\n"+
		"2. Send the `cookies.txt` file to this chat\n\n"+
		"*Requirements:*\n"+
		"• File must be a `.txt` file\n"+
		"• Minimum size: 100 bytes\n"+
		"• Maximum size: 1MB\n"+
		"• Must contain YouTube cookies\n\n"+
		"Send /cancel to abort the upload.",
		&telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
}

func (b *Bot) handleDocument(c telebot.Context) error {
	logger := logging.GetLogger()
	userID := c.Sender().ID
	if b.states.Get(userID) != StateAwaitingCookiesFile {
		return nil
	}
	if !b.IsAdmin(userID) {
		b.states.Clear(userID)
		return c.Send(adminRequiredText)
	}

	doc := c.Message().Document
	if doc == nil {
		b.states.Clear(userID)
		return c.Send("❌ Please send a file, not text.")
	}
	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".txt") {
		b.states.Clear(userID)
		return c.Send("❌ File must be a .txt file, preferably named 'cookies.txt'")
	}
	if doc.FileSize > 1024*1024 {
		b.states.Clear(userID)
		return c.Send("❌ File too large. Maximum size is 1MB.")
	}
	if doc.FileSize < 100 {
		b.states.Clear(userID)
		return c.Send("❌ File too small. Minimum size is 100 bytes.")
	}

	statusMsg, err := b.tb.Send(c.Chat(), "📥 Downloading cookies file...")
	if err != nil {
		logger.Error("could not send status message", zap.Error(err))
		return nil
	}

	tempDir, err := os.MkdirTemp("", "cookies-upload-")
	if err != nil {
		b.states.Clear(userID)
		b.editStatus(statusMsg, "❌ Internal error, try again later.")
		return nil
	}
	defer os.RemoveAll(tempDir)
	tempPath := filepath.Join(tempDir, "cookies_temp.txt")

	err = b.tb.Download(&doc.File, tempPath)
	if err != nil {
		logger.Error("could not download cookies document", zap.Error(err))
		b.states.Clear(userID)
		b.editStatus(statusMsg, "❌ Error downloading the file from Telegram.")
		return nil
	}

	summary, err := b.store.Replace(tempPath)
	b.states.Clear(userID)
	if err != nil {
		b.editStatus(statusMsg, "❌ Invalid cookies file:\n\n"+err.Error())
		return nil
	}

	meta := b.store.Metadata()
	b.editStatus(statusMsg, fmt.Sprintf("✅ Cookies Updated Successfully!\n\n"+
		"%s\n\n"+
		"New File: %s\n"+
		"Size: %d bytes\n"+
		"Domains: %d\n\n"+
		"✅ Age-restricted videos should now work.",
		summary, meta.Path, meta.Size, meta.DomainCount))
	return nil
}

func (b *Bot) handleCookiesBackup(c telebot.Context) error {
	if !b.IsAdmin(c.Sender().ID) {
		return c.Send(adminRequiredText)
	}
	if !b.store.Available() {
		return c.Send("❌ No cookies file to backup.")
	}

	backupPath, err := b.store.Backup()
	if err != nil {
		return c.Send("❌ Failed to create backup: " + err.Error())
	}

	backups, _ := b.store.ListBackups()
	return c.Send(fmt.Sprintf("✅ *Cookies Backup Created*\n\n"+
		"*Backup Location:* `%s`\n"+
		"*Total Backups:* %d\n\n"+
		"Use /cookies\\_restore to restore from a backup.",
		backupPath, len(backups)),
		&telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
}

func (b *Bot) handleCookiesRestore(c telebot.Context) error {
	userID := c.Sender().ID
	if !b.IsAdmin(userID) {
		return c.Send(adminRequiredText)
	}

	backups, err := b.store.ListBackups()
	if err != nil || len(backups) == 0 {
		return c.Send("❌ No backup files found.")
	}
	if len(backups) > 10 {
		backups = backups[:10]
	}

	var sb strings.Builder
	sb.WriteString("📂 Available Backups:\n\n")
	for i, backup := range backups {
		line := filepath.Base(backup)
		if stat, err := os.Stat(backup); err == nil {
			fmt.Fprintf(&sb, "%d. %s\n   Size: %d bytes, Date: %s\n\n",
				i+1, line, stat.Size(), stat.ModTime().Format("2006-01-02 15:04:05"))
		} else {
			fmt.Fprintf(&sb, "%d. %s\n\n", i+1, line)
		}
	}
	fmt.Fprintf(&sb, "To restore, reply with the backup number (1-%d) or send /cancel", len(backups))

	b.states.Set(userID, StateAwaitingBackupIndex)
	b.states.SetBackups(userID, backups)
	return c.Send(sb.String())
}

func (b *Bot) handleBackupSelection(c telebot.Context) error {
	userID := c.Sender().ID
	backups := b.states.Backups(userID)

	index, err := strconv.Atoi(strings.TrimSpace(c.Text()))
	if err != nil {
		return c.Send(fmt.Sprintf("❌ Please enter a number (1-%d) or /cancel", len(backups)))
	}
	if index < 1 || index > len(backups) {
		return c.Send(fmt.Sprintf("❌ Invalid selection. Please choose a number from 1-%d", len(backups)))
	}

	selected := backups[index-1]
	b.states.Clear(userID)

	err = b.store.Restore(selected)
	if err != nil {
		return c.Send("❌ Error restoring backup: " + err.Error())
	}

	meta := b.store.Metadata()
	return c.Send(fmt.Sprintf("✅ Cookies Restored Successfully!\n\n"+
		"Restored from: %s\n"+
		"New file: %s\n"+
		"Size: %d bytes\n"+
		"Modified: %s",
		filepath.Base(selected), meta.Path, meta.Size, meta.Modified))
}

func (b *Bot) handleCookiesTest(c telebot.Context) error {
	if !b.IsAdmin(c.Sender().ID) {
		return c.Send(adminRequiredText)
	}
	if !b.store.Available() {
		return c.Send("❌ No cookies file to test.")
	}

	statusMsg, err := b.tb.Send(c.Chat(), "🔄 Testing cookies with YouTube...")
	if err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), extractInfoTimeout)
		defer cancel()

		client := youtube.NewClient(b.store.Path(), nil)
		info, err := client.ExtractInfo(ctx, cookiesTestURL)
		if err != nil {
			b.editStatus(statusMsg, "❌ Cookies Test Failed\n\n"+
				"Error: "+truncate(err.Error(), 200)+"\n\n"+
				"Possible Issues:\n"+
				"1. Cookies file is expired\n"+
				"2. Cookies don't have YouTube domain\n"+
				"3. YouTube is blocking the request\n"+
				"4. File format is invalid\n\n"+
				"Try uploading a fresh cookies file.")
			return
		}

		meta := b.store.Metadata()
		b.editStatus(statusMsg, "✅ Cookies Test Successful!\n\n"+
			"Your cookies are working correctly with YouTube.\n\n"+
			"Details:\n"+
			fmt.Sprintf("• Connected to: %s\n", info.Title)+
			fmt.Sprintf("• Cookies file: %s\n", meta.Path)+
			fmt.Sprintf("• File size: %s\n\n", utils.HumanBytes(meta.Size))+
			"Age-restricted videos should now work.")
	}()
	return nil
}

func (b *Bot) handleCookiesDelete(c telebot.Context) error {
	if !b.IsAdmin(c.Sender().ID) {
		return c.Send(adminRequiredText)
	}
	if !b.store.Available() {
		return c.Send("❌ No cookies file to delete.")
	}

	meta := b.store.Metadata()
	markup := &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			{btnDeleteCookiesYes},
			{btnDeleteCookiesNo},
		},
	}
	return c.Send(fmt.Sprintf("⚠️ Delete Cookies File?\n\n"+
		"File: %s\n"+
		"Size: %d bytes\n"+
		"Last Modified: %s\n\n"+
		"Warning: this will remove all cookies.\n"+
		"Age-restricted videos will stop working.\n\n"+
		"Are you sure you want to delete the cookies file?",
		meta.Path, meta.Size, meta.Modified), markup)
}

func (b *Bot) handleDeleteCookiesConfirm(c telebot.Context) error {
	if !b.IsAdmin(c.Sender().ID) {
		return c.Respond(&telebot.CallbackResponse{Text: "Admin access required.", ShowAlert: true})
	}

	err := b.store.Delete()
	if err != nil {
		c.Edit("❌ Error deleting cookies: " + truncate(err.Error(), 200))
		return c.Respond(&telebot.CallbackResponse{})
	}

	c.Edit("✅ Cookies Deleted Successfully\n\n" +
		"The cookies file has been removed.\n\n" +
		"Note:\n" +
		"• Age-restricted videos will no longer work\n" +
		"• A backup was created before deletion\n" +
		"• Use /cookies_upload to add new cookies")
	return c.Respond(&telebot.CallbackResponse{})
}

func (b *Bot) handleDeleteCookiesAbort(c telebot.Context) error {
	if !b.IsAdmin(c.Sender().ID) {
		return c.Respond(&telebot.CallbackResponse{Text: "Admin access required.", ShowAlert: true})
	}
	c.Edit("✅ Cookies deletion cancelled.")
	return c.Respond(&telebot.CallbackResponse{})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
