// Package quiz holds the 30-question creator personality quiz and its
// scoring rules.
package quiz

// Question is one two-option quiz item.
type Question struct {
	ID      int       `json:"id"`
	Prompt  string    `json:"prompt"`
	Options [2]string `json:"options"`

	// IntuitiveIndex is the option counted as a "type A" (intuitive,
	// passion-driven) answer.
	IntuitiveIndex int `json:"-"`
}

// QuestionCount is the fixed size of the bank.
const QuestionCount = 30

// Bank returns a copy of the question bank in display order.
func Bank() []Question {
	out := make([]Question, len(bank))
	copy(out, bank)
	return out
}

var bank = []Question{
	{1, "What usually gets a new piece started?", [2]string{"An urge or feeling welling up inside", "An outside request or a clear concept"}, 0},
	{2, "How do you come up with ideas?", [2]string{"I grow them from scribbles and doodles", "I organize them with mind maps or lists"}, 0},
	{3, "How do you choose a palette?", [2]string{"By the feeling and taste of the moment", "By color theory and its effect on the audience"}, 0},
	{4, "What is your workspace like?", [2]string{"Chaotic, but I feel at home in it", "Tidy and functional"}, 0},
	{5, "How do you schedule your work?", [2]string{"In bursts, whenever the mood strikes", "Steadily, at the same time every day"}, 0},
	{6, "When you hit a slump, you...", [2]string{"Go looking for new stimulus (films, travel)", "Analyze the cause and drill the basics"}, 0},
	{7, "When is a piece finished?", [2]string{"When I feel I can't touch it any more", "When it meets the requirements I planned"}, 0},
	{8, "How do you feel about other people's opinions?", [2]string{"It's fine if people either love it or hate it", "I care whether many people understand it"}, 0},
	{9, "A new idea strikes mid-project. You...", [2]string{"Try it now, even if it changes the plan", "Finish the current piece and use it next time"}, 0},
	{10, "What matters in your tools and gear?", [2]string{"How they feel and how attached I am", "Specs and efficiency"}, 0},
	{11, "What do you want your work to convey?", [2]string{"My inner world, my own cry", "A message to society, or a solution"}, 0},
	{12, "What do your rough sketches look like?", [2]string{"Mostly abstract lines and shapes", "Close to a concrete layout"}, 0},
	{13, "Which kind of artist do you admire?", [2]string{"A wild, born genius", "An intellectual, theoretical mind"}, 0},
	{14, "How do you treat deadlines?", [2]string{"I keep polishing until the last minute", "I like to finish early with room to spare"}, 0},
	{15, "How do you feel about team projects?", [2]string{"Not for me, they break my rhythm", "I like them, shared roles are efficient"}, 0},
	{16, "Looking back at your old work, you notice...", [2]string{"The feelings I had at the time", "My technical shortcomings"}, 0},
	{17, "Why do you learn a new technique?", [2]string{"So I can make what I want to express", "Because it widens the work I can take on"}, 0},
	{18, "What plays while you work?", [2]string{"Loud music that lifts my mood", "Ambient sound or silence that keeps me focused"}, 0},
	{19, "How do you title your work?", [2]string{"Poetic and abstract", "Descriptive and concrete"}, 0},
	{20, "What do you share on social media?", [2]string{"Only the world of the finished work", "The process and my thinking too"}, 0},
	{21, "How do you react to criticism?", [2]string{"Sometimes I push back emotionally", "I calmly take it as something to improve"}, 0},
	{22, "Your style in one word?", [2]string{"Emotional, sensory", "Logical, functional"}, 0},
	{23, "How do you set goals?", [2]string{"I paint a big dream or vision", "I set concrete numbers and steps"}, 0},
	{24, "How do you gather information?", [2]string{"I dig deep into whatever catches my eye", "I survey broadly and systematically"}, 0},
	{25, "What happens to failed pieces?", [2]string{"I throw them out on impulse", "I keep them to analyze later"}, 0},
	{26, "What influences you most?", [2]string{"Experiences: nature, music, dreams", "Information: books, papers, news"}, 0},
	{27, "What matters most when you create?", [2]string{"What to depict (the subject)", "How to depict it (composition, technique)"}, 0},
	{28, "Facing a complex problem, you...", [2]string{"Trust your gut and break through", "Break it into parts and solve them"}, 0},
	{29, "What do you think of perfectionism?", [2]string{"Unfinished is fine if it has a soul", "It must be perfect down to the details"}, 0},
	{30, "What is art to you?", [2]string{"Life itself", "A way to contribute, or a job"}, 0},
}
