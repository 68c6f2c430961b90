package flow

// User-facing texts. Kept in one place so the vocabulary can be swapped
// without touching workflow logic.
const (
	msgGreeting = "Welcome to the bazar. Pick an action from the menu below."
	msgUnknown  = "I did not get that. Pick an action from the menu below."
	msgCanceled = "Canceled."
	msgFailure  = "Something went wrong, please try again."

	msgNeedAccount    = "You need an account first. Send \"create account\" to register."
	msgAlreadyHaveAcc = "You already have an account. Send \"update data\" to change it."
	msgAskNickname    = "What nickname should we show to buyers?"
	msgAskLocation    = "Where are you located?"
	msgAccountCreated = "Account created. Welcome aboard!"
	msgAccountUpdated = "Your profile has been updated."

	msgPickCategory   = "Pick a category:"
	msgAskName        = "What are you selling? Send the listing title."
	msgAskCurrency    = "Pick the price currency:"
	msgBadCurrency    = "Please pick one of the offered currencies."
	msgAskPrice       = "How much does it cost? Send a number greater than zero."
	msgBadPrice       = "That is not a valid price. Send a number greater than zero."
	msgAskDescription = "Describe the item in a few sentences."
	msgAskMedia       = "Send up to 5 photos or videos. Send \"done\" when finished, \"resend\" to start over."
	msgMediaOnly      = "Please send a photo or a video, or \"done\" / \"resend\"."
	msgMediaEmpty     = "Attach at least one photo or video before sending \"done\"."
	msgMediaCleared   = "Attachments dropped. Send them again."
	msgMediaFull      = "That is the limit. Send \"done\" to publish."
	msgPublished      = "Your listing is live!"
	msgUpdated        = "Your listing has been updated."
	msgDeleted        = "Listing deleted."

	msgAnswerAbove = "Please answer the question above first."
	msgListingGone = "That listing is not available anymore."

	msgNoListings   = "You have no listings yet."
	msgNoCategories = "No categories available yet, come back later."
	msgEmptyCat     = "Nothing in this category yet. Try another one:"
	msgQueueDrained = "No more items. Pick another category:"
	msgEndOfList    = "End of list."
	msgPickSort     = "How should we order your favorites?"
	msgSwipePrompt  = "What do you think?"
	msgUseButtons   = "Please use the buttons."
)
