package bot

import (
	"strings"

	"vetflow/vetting"
)

// Menu button labels. These are the only place presentation strings and
// control flow meet: the transition table keys on them.
const (
	labelRetail          = "🏬 Магазини / Логістика"
	labelSecurity        = "🛡 Охорона"
	labelCancel          = "❌ Скасувати"
	labelAddEmployee     = "➕ Додати працівника"
	labelCheckStatus     = "📋 Перевірити статус"
	labelAnalytics       = "📊 Аналітика"
	labelChangeDirection = "⬅️ Змінити напрямок"
	labelByDate          = "🔍 Перевірити за датою"
	labelStatistics      = "📊 Статистика"
	labelBack            = "⬅️ Назад"
	labelPeriod          = "📅 За період"
	labelStandard        = "📆 Сьогодні/вчора"
	labelOverall         = "📈 Загальна статистика"
)

var (
	directionKeyboard  = Keyboard{{labelRetail}, {labelSecurity}}
	cancelKeyboard     = Keyboard{{labelCancel}}
	mainKeyboard       = Keyboard{{labelAddEmployee, labelCheckStatus}, {labelAnalytics}, {labelChangeDirection}}
	analyticsKeyboard  = Keyboard{{labelByDate}, {labelStatistics}, {labelBack}}
	statisticsKeyboard = Keyboard{{labelPeriod, labelStandard}, {labelOverall}, {labelBack}}
)

const msgWelcome = "👋 *Вітаю!* \n\n" +
	"Цей бот створений командою Аврора для перевірки працівників аутсорсу.\n\n" +
	"Перед початком роботи вам треба обрати ваш напрямок, за яким ви надаєте послуги аутсорсу та " +
	"ввести пароль, наданий командою Аврори відповідно до напрямку.\n\n" +
	"\nЯкщо ви хочете додати працівника на перевірку, натисність:\n" +
	"========================================================\n" +
	"                                       ➕ Додати працівника\n" +
	"========================================================" +
	"\nЯкщо ви хочете перевірити чи погоджений/не погоджений працівник, натисніть:\n" +
	"========================================================\n" +
	"                                        📋 Перевірити статус\n" +
	"========================================================" +
	"Можна здійснювати перевірку більше одного працівника." +
	" Для цього внесіть ІПН декількох працівників через пробіл або в стовпчик." +
	"\n\nЯкщо у ІПН переплутані цифри, то працівник *перевірятися не буде* та вам у телеграм прийде сповіщення у форматі:" +
	"\nПІБ - *Очікує погодження*" +
	"\nКоментар: _Невірний ІПН_" +
	"\nЩоб виправити - треба знову надіслати працівника на перевірку.\n" +
	"\n*Важливо*. Перевірка працівників здійснюється *до 24 годин*.\n" +
	"*Субота та неділя - не робочі дні*, тому якщо ви надіслали працівника на перевірку у п'ятницю, результат буде у цей же день, або у понеділок.\n\n" +
	"*Бажаємо гарного дня!*"

const (
	msgChooseDirection   = "👋 Оберіть напрямок, з яким хочете працювати:"
	msgChangeDirection   = "🔁 Оберіть напрямок:"
	msgWrongChoice       = "❌ Невірний вибір. Спробуйте ще раз."
	msgAskPassword       = "🔐 Введіть пароль доступу:"
	msgWrongPassword     = "❌ Невірний пароль. Спробуйте ще раз:"
	msgAskCompany        = "🏢 Введіть назву компанії, наприклад: *ОХОРОНА*:"
	msgCompanyTooShort   = "❌ Назва компанії занадто коротка. Спробуйте ще раз:"
	msgAskName           = "✍️ Введіть ПІБ працівника:"
	msgNameFormat        = "❗ Формат: Прізвище Ім’я По-батькові"
	msgAskTaxID          = "🔢 Введіть ІПН (10 цифр):"
	msgInvalidTaxID      = "❌ ІПН має містити 10 цифр."
	msgAlreadyExists     = "🚫 Працівник вже існує."
	msgEmployeeAdded     = "✅ Працівника додано!"
	msgAskCheckIDs       = "🔎 Введіть ІПН(и):"
	msgNotFound          = "❌ Не знайдено"
	msgCancelled         = "🔙 Скасовано."
	msgCancelledNoRole   = "🔙 Скасовано. Оберіть напрямок:"
	msgNotUnderstood     = "🤷 Не зрозумів. Оберіть пункт меню."
	msgStoreError        = "⚠️ Помилка при зчитуванні таблиці."
	msgAnalyticsMenu     = "📊 *Меню аналітики*"
	msgAskAnalyticsDate  = "📅 Введіть дату у форматі дд.мм.рр (наприклад 05.07.24):"
	msgInvalidDate       = "❌ Невірний формат дати."
	msgNoneFoundByDate   = "ℹ️ Працівників за цю дату не знайдено."
	msgChooseStatistics  = "📊 Оберіть тип статистики:"
	msgAskPeriodStart    = "🗓 Введіть початкову дату у форматі дд.мм.рр:"
	msgInvalidPeriodDate = "❌ Невірний формат."
	msgAskPeriodEnd      = "📆 Тепер введіть кінцеву дату:"
	msgPeriodError       = "⚠️ Помилка. Перевірте формат дат."
	msgGoingBack         = "🔙 Повернення назад..."
)

// directionName is the access-granted display name for a role.
func directionName(role vetting.Role) string {
	if role == vetting.RoleSecurity {
		return "Охорона"
	}
	return "Магазини / Логістика"
}

// isCancel recognizes the cancellation interrupt accepted in every state.
func isCancel(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == "❌ скасувати" || t == "скасувати"
}

// isBack recognizes the back label inside analytics free-text prompts.
func isBack(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == "⬅️ назад" || t == "назад"
}
