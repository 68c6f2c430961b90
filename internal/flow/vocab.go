package flow

// Top-level menu and workflow commands, matched case-insensitively
// against inbound text.
const (
	CmdStart      = "/start"
	CmdProfile    = "profile"
	CmdMyListings = "my listings"
	CmdFavorites  = "favorites"
	CmdBrowse     = "browse"

	CmdAddProduct    = "add product"
	CmdUpdateData    = "update data"
	CmdCreateAccount = "create account"
	CmdBack          = "back"

	CmdResend = "resend"
	CmdDone   = "done"
)

// Inline callback keys. Payloads carry a numeric id where applicable.
const (
	CBCategory = "cat"
	CBLike     = "like"
	CBDislike  = "dislike"
	CBDelLiked = "delliked"
	CBNext     = "next"
	CBWrite    = "write"
	CBUpdate   = "update"
	CBDelete   = "delete"
	CBFirstOld = "first_old"
	CBFirstNew = "first_new"
)

// MainMenu is the top-level reply keyboard.
func MainMenu() *Keyboard {
	return ReplyMenu(
		[]string{CmdBrowse, CmdFavorites},
		[]string{CmdAddProduct, CmdMyListings},
		[]string{CmdProfile},
	)
}
