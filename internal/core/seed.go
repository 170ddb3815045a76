package core

import (
	"time"

	"amarhadis/pkg/models"
)

// seedHadiths is the starter content set installed on first run and by
// the resolver's self-heal rung. IDs are fixed so repeated seeding
// cannot duplicate rows.
func seedHadiths() []models.Hadith {
	now := time.Now()
	return []models.Hadith{
		{
			ID:          "hadith-seed-001",
			BookID:      "bukhari",
			CategoryID:  "intention",
			ArabicText:  "إِنَّمَا الأَعْمَالُ بِالنِّيَّاتِ وَإِنَّمَا لِكُلِّ امْرِئٍ مَا نَوَى",
			BanglaText:  "সকল কাজ নিয়তের উপর নির্ভরশীল। প্রত্যেক ব্যক্তি তাই পাবে যা সে নিয়ত করেছে।",
			EnglishText: "Actions are but by intentions, and every man shall have only that which he intended.",
			Narrator:    "উমার ইবনুল খাত্তাব (রা.)",
			Grade:       models.GradeSahih,
			Reference:   "সহিহ বুখারি, হাদিস ১",
			Difficulty:  models.DifficultyBeginner,
			Status:      models.StatusVerified,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "hadith-seed-002",
			BookID:      "muslim",
			CategoryID:  "character",
			ArabicText:  "لاَ يُؤْمِنُ أَحَدُكُمْ حَتَّى يُحِبَّ لأَخِيهِ مَا يُحِبُّ لِنَفْسِهِ",
			BanglaText:  "তোমাদের কেউ ততক্ষণ পর্যন্ত মুমিন হতে পারবে না, যতক্ষণ না সে তার ভাইয়ের জন্য তা-ই পছন্দ করবে, যা সে নিজের জন্য পছন্দ করে।",
			EnglishText: "None of you truly believes until he loves for his brother what he loves for himself.",
			Narrator:    "আনাস ইবনে মালিক (রা.)",
			Grade:       models.GradeSahih,
			Reference:   "সহিহ মুসলিম, হাদিস ৪৫",
			Difficulty:  models.DifficultyBeginner,
			Status:      models.StatusVerified,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "hadith-seed-003",
			BookID:      "bukhari",
			CategoryID:  "speech",
			ArabicText:  "مَنْ كَانَ يُؤْمِنُ بِاللَّهِ وَالْيَوْمِ الآخِرِ فَلْيَقُلْ خَيْرًا أَوْ لِيَصْمُتْ",
			BanglaText:  "যে ব্যক্তি আল্লাহ ও শেষ দিনের প্রতি বিশ্বাস রাখে, সে যেন ভালো কথা বলে অথবা চুপ থাকে।",
			EnglishText: "Whoever believes in Allah and the Last Day should speak good or remain silent.",
			Narrator:    "আবু হুরাইরা (রা.)",
			Grade:       models.GradeSahih,
			Reference:   "সহিহ বুখারি, হাদিস ৬০১৮",
			Difficulty:  models.DifficultyBeginner,
			Status:      models.StatusVerified,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "hadith-seed-004",
			BookID:      "muslim",
			CategoryID:  "knowledge",
			ArabicText:  "مَنْ سَلَكَ طَرِيقًا يَلْتَمِسُ فِيهِ عِلْمًا سَهَّلَ اللَّهُ لَهُ بِهِ طَرِيقًا إِلَى الْجَنَّةِ",
			BanglaText:  "যে ব্যক্তি জ্ঞান অন্বেষণের জন্য কোনো পথ অবলম্বন করে, আল্লাহ তার জন্য জান্নাতের পথ সহজ করে দেন।",
			EnglishText: "Whoever travels a path in search of knowledge, Allah makes easy for him a path to Paradise.",
			Narrator:    "আবু হুরাইরা (রা.)",
			Grade:       models.GradeSahih,
			Reference:   "সহিহ মুসলিম, হাদিস ২৬৯৯",
			Difficulty:  models.DifficultyIntermediate,
			Status:      models.StatusVerified,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "hadith-seed-005",
			BookID:      "tirmidhi",
			CategoryID:  "mercy",
			ArabicText:  "الرَّاحِمُونَ يَرْحَمُهُمُ الرَّحْمَنُ ارْحَمُوا مَنْ فِي الأَرْضِ يَرْحَمْكُمْ مَنْ فِي السَّمَاءِ",
			BanglaText:  "দয়াশীলদের প্রতি পরম দয়ালু আল্লাহ দয়া করেন। তোমরা পৃথিবীবাসীর প্রতি দয়া করো, আসমানে যিনি আছেন তিনি তোমাদের প্রতি দয়া করবেন।",
			EnglishText: "The merciful are shown mercy by the Most Merciful. Be merciful to those on earth, and the One in heaven will be merciful to you.",
			Narrator:    "আব্দুল্লাহ ইবনে আমর (রা.)",
			Grade:       models.GradeHasan,
			Reference:   "জামে তিরমিজি, হাদিস ১৯২৪",
			Difficulty:  models.DifficultyIntermediate,
			Status:      models.StatusVerified,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// staticFallback is the last resort when persistence is unreachable.
// Returns fresh copies so callers cannot mutate shared state.
func staticFallback() []models.Hadith {
	seeds := seedHadiths()
	return seeds[:models.ScheduleSize]
}
