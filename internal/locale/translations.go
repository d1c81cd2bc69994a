package locale

// Language is a UI locale code. The console ships exactly two locales.
type Language string

const (
	LangUz Language = "uz"
	LangRu Language = "ru"

	DefaultLanguage = LangRu
)

func Valid(lang Language) bool {
	return lang == LangUz || lang == LangRu
}

// Normalize maps unknown or empty codes to the default locale.
func Normalize(lang Language) Language {
	if Valid(lang) {
		return lang
	}
	return DefaultLanguage
}

type CommonStrings struct {
	Save     string `json:"save"`
	Cancel   string `json:"cancel"`
	Delete   string `json:"delete"`
	Add      string `json:"add"`
	Remove   string `json:"remove"`
	Confirm  string `json:"confirm"`
	Back     string `json:"back"`
	Loading  string `json:"loading"`
	Error    string `json:"error"`
	Success  string `json:"success"`
	Enabled  string `json:"enabled"`
	Disabled string `json:"disabled"`
	All      string `json:"all"`
	Search   string `json:"search"`
	Filter   string `json:"filter"`
}

type NavStrings struct {
	Dashboard    string `json:"dashboard"`
	Groups       string `json:"groups"`
	Logs         string `json:"logs"`
	Subscription string `json:"subscription"`
	Settings     string `json:"settings"`
	Logout       string `json:"logout"`
	AdminPanel   string `json:"adminPanel"`
	UnknownGroup string `json:"unknownGroup"`
	AllGroups    string `json:"allGroups"`
}

type DashboardStrings struct {
	Title          string `json:"title"`
	Welcome        string `json:"welcome"`
	TotalSlots     string `json:"totalSlots"`
	UsedSlots      string `json:"usedSlots"`
	FreeSlots      string `json:"freeSlots"`
	PremiumGroups  string `json:"premiumGroups"`
	FreeGroups     string `json:"freeGroups"`
	RecentActivity string `json:"recentActivity"`
	BindGroup      string `json:"bindGroup"`
	ViewLogs       string `json:"viewLogs"`
}

type GroupStrings struct {
	Title         string `json:"title"`
	BoundGroups   string `json:"boundGroups"`
	UnboundGroups string `json:"unboundGroups"`
	Members       string `json:"members"`
	StatusFree    string `json:"statusFree"`
	StatusPremium string `json:"statusPremium"`
	Bind          string `json:"bind"`
	Unbind        string `json:"unbind"`
	Configure     string `json:"configure"`
	NoGroups      string `json:"noGroups"`
	NoFreeSlots   string `json:"noFreeSlots"`
	AdsEnabled    string `json:"adsEnabled"`
	AdsDisabled   string `json:"adsDisabled"`
}

// Translations is the fixed display-string schema for one locale.
type Translations struct {
	Common    CommonStrings    `json:"common"`
	Nav       NavStrings       `json:"nav"`
	Dashboard DashboardStrings `json:"dashboard"`
	Groups    GroupStrings     `json:"groups"`
}

var translations = map[Language]Translations{
	LangUz: {
		Common: CommonStrings{
			Save:     "Saqlash",
			Cancel:   "Bekor qilish",
			Delete:   "O'chirish",
			Add:      "Qo'shish",
			Remove:   "Olib tashlash",
			Confirm:  "Tasdiqlash",
			Back:     "Orqaga",
			Loading:  "Yuklanmoqda...",
			Error:    "Xatolik",
			Success:  "Muvaffaqiyatli",
			Enabled:  "Yoqilgan",
			Disabled: "O'chirilgan",
			All:      "Hammasi",
			Search:   "Qidirish",
			Filter:   "Filtrlash",
		},
		Nav: NavStrings{
			Dashboard:    "Boshqaruv paneli",
			Groups:       "Guruhlar",
			Logs:         "Jurnallar",
			Subscription: "Obuna",
			Settings:     "Sozlamalar",
			Logout:       "Chiqish",
			AdminPanel:   "Admin Panel",
			UnknownGroup: "Noma'lum guruh",
			AllGroups:    "Barcha guruhlar",
		},
		Dashboard: DashboardStrings{
			Title:          "Boshqaruv paneli",
			Welcome:        "Xush kelibsiz",
			TotalSlots:     "Jami slotlar",
			UsedSlots:      "Ishlatilgan",
			FreeSlots:      "Bo'sh slotlar",
			PremiumGroups:  "Premium guruhlar",
			FreeGroups:     "Bepul guruhlar",
			RecentActivity: "So'nggi faoliyat",
			BindGroup:      "Guruh ulash",
			ViewLogs:       "Jurnallarni ko'rish",
		},
		Groups: GroupStrings{
			Title:         "Guruhlar",
			BoundGroups:   "Ulangan guruhlar",
			UnboundGroups: "Ulanmagan guruhlar",
			Members:       "A'zolar",
			StatusFree:    "BEPUL",
			StatusPremium: "PREMIUM",
			Bind:          "Ulash",
			Unbind:        "Uzish",
			Configure:     "Sozlash",
			NoGroups:      "Guruhlar topilmadi",
			NoFreeSlots:   "Bo'sh slot mavjud emas",
			AdsEnabled:    "Reklamalar yoqilgan",
			AdsDisabled:   "Reklamalar o'chirilgan",
		},
	},
	LangRu: {
		Common: CommonStrings{
			Save:     "Сохранить",
			Cancel:   "Отмена",
			Delete:   "Удалить",
			Add:      "Добавить",
			Remove:   "Убрать",
			Confirm:  "Подтвердить",
			Back:     "Назад",
			Loading:  "Загрузка...",
			Error:    "Ошибка",
			Success:  "Успешно",
			Enabled:  "Включено",
			Disabled: "Отключено",
			All:      "Все",
			Search:   "Поиск",
			Filter:   "Фильтр",
		},
		Nav: NavStrings{
			Dashboard:    "Панель управления",
			Groups:       "Группы",
			Logs:         "Журналы",
			Subscription: "Подписка",
			Settings:     "Настройки",
			Logout:       "Выход",
			AdminPanel:   "Панель админа",
			UnknownGroup: "Неизвестная группа",
			AllGroups:    "Все группы",
		},
		Dashboard: DashboardStrings{
			Title:          "Панель управления",
			Welcome:        "Добро пожаловать",
			TotalSlots:     "Всего слотов",
			UsedSlots:      "Использовано",
			FreeSlots:      "Свободно",
			PremiumGroups:  "Премиум группы",
			FreeGroups:     "Бесплатные группы",
			RecentActivity: "Последняя активность",
			BindGroup:      "Привязать группу",
			ViewLogs:       "Просмотр журналов",
		},
		Groups: GroupStrings{
			Title:         "Группы",
			BoundGroups:   "Привязанные группы",
			UnboundGroups: "Непривязанные группы",
			Members:       "Участники",
			StatusFree:    "БЕСПЛАТНО",
			StatusPremium: "ПРЕМИУМ",
			Bind:          "Привязать",
			Unbind:        "Отвязать",
			Configure:     "Настроить",
			NoGroups:      "Группы не найдены",
			NoFreeSlots:   "Нет свободных слотов",
			AdsEnabled:    "Реклама включена",
			AdsDisabled:   "Реклама отключена",
		},
	},
}

// Strings returns the table for the locale, falling back to the default for
// unknown codes.
func Strings(lang Language) Translations {
	return translations[Normalize(lang)]
}
