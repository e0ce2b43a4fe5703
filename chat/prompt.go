package chat

import (
	"strings"
	"unicode/utf8"
)

// DefaultSystemPrompt is the store assistant's operating instruction.
const DefaultSystemPrompt = `Bạn là một trợ lý ảo am hiểu về nông nghiệp và các sản phẩm nông sản.
Hãy giúp người dùng tìm kiếm và cung cấp thông tin chi tiết về các sản phẩm nông sản từ hệ thống cửa hàng của chúng tôi.
Sử dụng các công cụ tìm kiếm sản phẩm và lấy chi tiết sản phẩm khi cần thiết.
Hãy đảm bảo rằng bạn cung cấp thông tin chính xác và hữu ích cho người dùng.
Nếu bạn không chắc chắn về câu trả lời, hãy thận trọng và đề nghị người dùng kiểm tra lại thông tin từ nguồn chính thức.`

const maxUserIDLen = 64

// buildSystemPrompt appends the caller's user id as a separate line. The id
// is sanitized before it reaches the model: callers control this value, so
// raw interpolation into the instruction text would be an injection surface.
func buildSystemPrompt(prompt, userID string) string {
	sanitized := sanitizeUserID(userID)
	if sanitized == "" {
		return prompt
	}
	return prompt + "\nID của người dùng: " + sanitized
}

// sanitizeUserID strips control characters and caps the length.
func sanitizeUserID(userID string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, userID)
	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > maxUserIDLen {
		// Back up to a rune boundary so the cut never splits a multibyte
		// character.
		cut := maxUserIDLen
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut]
	}
	return cleaned
}
