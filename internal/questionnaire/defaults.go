package questionnaire

import "github.com/ashureev/avika/internal/domain"

func options(a, b, c, d string) []Option {
	return []Option{
		{Letter: domain.LetterA, Text: a},
		{Letter: domain.LetterB, Text: b},
		{Letter: domain.LetterC, Text: c},
		{Letter: domain.LetterD, Text: d},
	}
}

var defaultQuestions = []Question{
	{
		ID:       1,
		Category: AppearanceAwareness,
		Text:     "Over the past two weeks, how would you describe your physical appearance and grooming habits?",
		Options: options(
			"Appropriate – Well-dressed and neatly groomed throughout",
			"Well-groomed – Generally clean and tidy, with some attention to appearance",
			"Disheveled – Often untidy or unkempt, but basic hygiene maintained",
			"Neglected hygiene – Frequently poorly groomed, with noticeable issues",
		),
		Keywords:     []string{"appearance", "grooming", "dressed", "clean", "hygiene", "clothes", "shower", "shaved", "makeup"},
		ContextHints: []string{"how do you look", "how are you dressed", "how do you take care of yourself"},
	},
	{
		ID:       2,
		Category: AppearanceAwareness,
		Text:     "Over the past two weeks, how connected have you felt to your surroundings?",
		Options: options(
			"Fully connected – Actively engaged and aware of your environment",
			"Partially connected – Sometimes engaged, but with occasional feelings of detachment",
			"Disconnected – Frequently felt distant or detached from surroundings",
			"Completely detached – Felt removed or numb, as though observing rather than participating",
		),
		Keywords:     []string{"connected", "surroundings", "environment", "aware", "present", "detached", "distant"},
		ContextHints: []string{"how do you feel about your surroundings", "do you feel present", "how aware are you"},
	},
	{
		ID:       3,
		Category: AppearanceAwareness,
		Text:     "Over the past two weeks, how would you describe your awareness and response to everyday situations?",
		Options: options(
			"Alert and responsive – Quickly noticed and responded appropriately",
			"Mildly distracted – Occasionally missed details but could still participate",
			"Often preoccupied – Frequently lost in thought, slow or inappropriate responses",
			"Unaware or withdrawn – Rarely engaged or aware of what was happening",
		),
		Keywords:     []string{"aware", "alert", "responsive", "distracted", "preoccupied", "withdrawn"},
		ContextHints: []string{"how do you respond to situations", "how aware are you of what's happening"},
	},
	{
		ID:       4,
		Category: AttitudeEngagement,
		Text:     "How do you generally respond when someone asks for your opinion?",
		Options: options(
			"I respond openly and constructively",
			"I avoid giving direct answers",
			"I question their intent before answering",
			"I refuse to answer or challenge the question",
		),
		Keywords:     []string{"opinion", "respond", "answer", "question", "avoid", "challenge"},
		ContextHints: []string{"how do you give your opinion", "what do you do when asked for your thoughts"},
	},
	{
		ID:       5,
		Category: AttitudeEngagement,
		Text:     "How do you maintain eye contact in a conversation?",
		Options: options(
			"I maintain steady and appropriate eye contact",
			"I look around frequently or avoid direct gaze",
			"I maintain eye contact but remain reserved",
			"I stare intensely or aggressively",
		),
		Keywords:     []string{"eye contact", "look", "gaze", "stare", "eyes"},
		ContextHints: []string{"how do you look at people", "do you make eye contact"},
	},
	{
		ID:       6,
		Category: AttitudeEngagement,
		Text:     "How do you generally move or use gestures when interacting?",
		Options: options(
			"I use natural gestures that match my speech",
			"I fidget or avoid noticeable movement",
			"I keep my movements restricted or deliberate",
			"I use abrupt or forceful gestures",
		),
		Keywords:     []string{"gesture", "move", "fidget", "restricted", "forceful", "body language"},
		ContextHints: []string{"how do you move when talking", "what do you do with your hands"},
	},
	{
		ID:       7,
		Category: BehaviorPerformance,
		Text:     "How did it feel when you spoke to people during recent conversations?",
		Options: options(
			"Pretty normal, nothing different",
			"A bit faster than usual, but still clear",
			"Like I have to think a bit more before I speak",
			"Like words tumble out before I've fully thought them through",
		),
		Keywords:     []string{"speak", "talk", "conversation", "words", "think", "clear"},
		ContextHints: []string{"how do you feel when talking", "how do you speak in conversations"},
	},
	{
		ID:       8,
		Category: BehaviorPerformance,
		Text:     "How do you usually respond to a rough day?",
		Options: options(
			"I shake it off pretty easily and move on",
			"I get upset, but remind myself it'll pass and keep going",
			"I try! But it often feels like what I do doesn't matter",
			"I feel like it's all too much, and nothing I do will really change things",
		),
		Keywords:     []string{"rough day", "upset", "shake off", "overwhelm", "cope", "handle"},
		ContextHints: []string{"how do you deal with bad days", "what do you do when things go wrong"},
	},
	{
		ID:       9,
		Category: BehaviorPerformance,
		Text:     "What usually happens when you start speaking in a meeting?",
		Options: options(
			"I give an update with key points in order",
			"I pause to collect my thoughts, then explain things",
			"I start talking but lose track or forget important details",
			"I struggle to find the right words and jump between unrelated points",
		),
		Keywords:     []string{"meeting", "speak", "explain", "thoughts", "track", "words"},
		ContextHints: []string{"how do you speak in meetings", "what happens when you present"},
	},
	{
		ID:       10,
		Category: SomaticComplaints,
		Text:     "How often have you felt unexplained physical pain recently?",
		Options: options(
			"Not at all – I haven't experienced any such pain",
			"Occasionally – I've felt some discomfort, but it's rare and manageable",
			"Frequently – These symptoms happen a few times a week and are noticeable",
			"Almost daily – The physical discomfort is regular and affecting my routine",
		),
		Keywords:     []string{"pain", "ache", "headache", "discomfort", "physical", "body"},
		ContextHints: []string{"do you have any pain", "how's your body feeling", "any physical discomfort"},
	},
	{
		ID:       11,
		Category: SomaticComplaints,
		Text:     "Do you experience stomach issues during stress or deadlines?",
		Options: options(
			"Rarely – My digestion stays the same regardless of stress",
			"Sometimes – I notice mild symptoms when I'm under pressure",
			"Often – My stomach tends to get upset during high-stress situations",
			"Very frequently – I almost always experience digestive issues during deadlines",
		),
		Keywords:     []string{"stomach", "digestion", "stress", "deadline", "upset", "bloating"},
		ContextHints: []string{"how's your stomach", "do you get digestive issues", "how do you feel during stress"},
	},
	{
		ID:       12,
		Category: SomaticComplaints,
		Text:     "How often do you feel tired or physically drained?",
		Options: options(
			"Almost never – I usually wake up refreshed and energized",
			"Occasionally – I feel tired once in a while but bounce back quickly",
			"Often – I feel low on energy most days, even without a clear reason",
			"Almost always – I feel physically exhausted even when I've rested well",
		),
		Keywords:     []string{"tired", "energy", "drained", "exhausted", "rest", "sleep"},
		ContextHints: []string{"how's your energy", "do you feel tired", "how do you feel after sleeping"},
	},
}

// Default returns the standard twelve-question bank.
func Default() *Bank {
	b, err := NewBank(defaultQuestions)
	if err != nil {
		panic("questionnaire: invalid default bank: " + err.Error())
	}
	return b
}
