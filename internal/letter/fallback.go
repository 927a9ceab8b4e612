package letter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"civiclens/internal/complaint"
)

// phrases holds the localized salutation and closing for a fallback
// letter. The body stays in English when no translation exists; the
// letter remains usable either way.
type phrases struct {
	salutation string
	closing    string
}

// localized covers every supported letter language. The fallback
// renders structure deterministically; only these two lines vary.
var localized = map[complaint.Language]phrases{
	complaint.LangEnglish:   {"Respected Sir/Madam,", "Yours faithfully,"},
	complaint.LangHindi:     {"महोदय/महोदया,", "भवदीय,"},
	complaint.LangGujarati:  {"માનનીય મહોદય/મહોદયા,", "આપનો વિશ્વાસુ,"},
	complaint.LangMarathi:   {"महोदय/महोदया,", "आपला विश्वासू,"},
	complaint.LangPunjabi:   {"ਸਤਿਕਾਰਯੋਗ ਸ਼੍ਰੀਮਾਨ/ਸ਼੍ਰੀਮਤੀ ਜੀ,", "ਤੁਹਾਡਾ ਵਿਸ਼ਵਾਸਪਾਤਰ,"},
	complaint.LangTamil:     {"மதிப்பிற்குரிய ஐயா/அம்மையீர்,", "தங்கள் உண்மையுள்ள,"},
	complaint.LangTelugu:    {"గౌరవనీయులైన అయ్యా/అమ్మా,", "మీ విధేయుడు,"},
	complaint.LangKannada:   {"ಮಾನ್ಯರೇ,", "ತಮ್ಮ ವಿಶ್ವಾಸಿ,"},
	complaint.LangMalayalam: {"ബഹുമാനപ്പെട്ട സർ/മാഡം,", "വിശ്വസ്തതയോടെ,"},
	complaint.LangBengali:   {"মাননীয় মহোদয়/মহোদয়া,", "বিনীত,"},
}

// subjectPrefixes marks urgent and reminder letters in the subject
// line; the normal template carries no prefix.
var subjectPrefixes = map[complaint.Template]string{
	complaint.TemplateUrgent:   "URGENT: ",
	complaint.TemplateReminder: "REMINDER: ",
}

// TemplateGenerator synthesizes a deterministic plain-text letter.
//
// It is the variant of last resort and therefore cannot fail: both
// Generator methods always return a non-empty string and a nil error.
type TemplateGenerator struct {
	// now is swappable for deterministic tests
	now func() time.Time
}

// NewTemplateGenerator creates the deterministic fallback generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{now: time.Now}
}

// GenerateLetter renders the fixed skeleton: date, recipient, subject,
// salutation, body referencing category/location/description, closing.
func (t *TemplateGenerator) GenerateLetter(_ context.Context, d *complaint.Draft) (string, error) {
	ph, ok := localized[d.Language]
	if !ok {
		ph = localized[complaint.LangEnglish]
	}

	recipient := strings.TrimSpace(d.Authority)
	if recipient == "" {
		recipient = fmt.Sprintf("%s Municipal Corporation", d.Location.City)
	}

	subject := subjectPrefixes[d.Template] + string(d.Type)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Date: %s\n", t.now().Format("02 January 2006"))
	fmt.Fprintf(&sb, "To:\n%s\n\n", recipient)
	fmt.Fprintf(&sb, "Subject: %s at %s, %s\n\n", subject, d.Location.Area, d.Location.City)
	sb.WriteString(ph.salutation + "\n\n")
	fmt.Fprintf(&sb,
		"I wish to bring to your attention a civic issue in our locality. %s\n\n", d.Description)
	fmt.Fprintf(&sb,
		"The issue falls under: %s. Location: %s, %s, %s. I request the concerned department to inspect the site and take corrective action at the earliest.\n\n",
		d.Type, d.Location.Area, d.Location.City, d.Location.State)
	if d.Template == complaint.TemplateReminder {
		sb.WriteString("Kindly treat this letter as a reminder to my earlier complaint on the same issue, which remains unresolved.\n\n")
	}
	sb.WriteString(ph.closing + "\n")
	sb.WriteString("A Concerned Citizen")

	return sb.String(), nil
}

// GenerateDescription returns the deterministic one-line description
// used when no generative service is available.
func (t *TemplateGenerator) GenerateDescription(_ context.Context, d *complaint.Draft) (string, error) {
	return fmt.Sprintf("The %s in %s needs attention.", d.Type, d.Location.Area), nil
}

// cannedReplies answers the assistant questions the template variant
// can recognize. Matching is on lowercase substrings, first hit wins.
var cannedReplies = []struct {
	keywords []string
	reply    string
}{
	{[]string{"status", "track"},
		"Open My Complaints to see every letter you have generated along with its current status. You can mark a complaint as Submitted or Resolved there."},
	{[]string{"download", "export", "pdf", "docx", "word"},
		"From the review step or My Complaints you can download any letter as a PDF or Word document, with your photo and signature included."},
	{[]string{"photo", "image", "picture"},
		"On the photo step you can attach one photo of the issue as evidence. Photos up to 5MB are accepted."},
	{[]string{"sign", "signature"},
		"On the review step you can draw your signature or type your name to have one rendered for you. It appears at the bottom of the exported letter."},
	{[]string{"language", "hindi", "english"},
		"Letters can be generated in English, Hindi, Gujarati, Marathi, Punjabi, Tamil, Telugu, Kannada, Malayalam or Bengali. Pick the language on the details step."},
	{[]string{"complaint", "file", "report", "letter", "how"},
		"Pick a complaint category, fill in the location and a short description, optionally attach a photo, and CivicLens drafts the formal letter for you."},
}

// ChatReply answers with a canned response matched on keywords. The
// default reply greets the citizen and points at the wizard.
func (t *TemplateGenerator) ChatReply(_ context.Context, message, userName string) (string, error) {
	lower := strings.ToLower(message)
	for _, c := range cannedReplies {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.reply, nil
			}
		}
	}

	greeting := "Hello! Welcome to CivicLens."
	if userName != "" {
		greeting = fmt.Sprintf("Hello %s!", strings.Split(userName, " ")[0])
	}
	return greeting + " I can help you file a civic complaint: ask me about categories, photos, signatures, languages or tracking your complaint status.", nil
}
