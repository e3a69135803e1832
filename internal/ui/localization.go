package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyRepository        = "repository"
	KeyLoad              = "load"
	KeyDataset           = "dataset"
	KeyDestination       = "destination"
	KeyBrowse            = "browse"
	KeyRateLimit         = "rate_limit"
	KeyStart             = "start"
	KeyPause             = "pause"
	KeyResume            = "resume"
	KeyStop              = "stop"
	KeyOpenFolder        = "open_folder"
	KeySettings          = "settings"
	KeySelectAll         = "select_all"
	KeySelectNone        = "select_none"
	KeyInvert            = "invert"
	KeySelectMatching    = "select_matching"
	KeyDeselectMatching  = "deselect_matching"
	KeyFilesSummary      = "files_summary"
	KeyNoFiles           = "no_files"
	KeySaveSelection     = "save_selection"
	KeyLoadSelection     = "load_selection"
	KeyStatusLog         = "status_log"
	KeyLanguage          = "language"
	KeyDownloadDirectory = "download_directory"
	KeyEnginePath        = "engine_path"
	KeyConnections       = "connections"
	KeyEndpoint          = "endpoint"
	KeyToken             = "token"
	KeyRevision          = "revision"
	KeyAutoReveal        = "auto_reveal"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeySettingsSaved     = "settings_saved"
	KeyError             = "error"
	KeyPleaseEnterRepo   = "please_enter_repo"
	KeyMissingFiles      = "missing_files"
	KeySelectionSaved    = "selection_saved"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"zh": "中文",
	}
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "HF Downloader",
		KeyRepository:        "Repository",
		KeyLoad:              "Load",
		KeyDataset:           "Dataset",
		KeyDestination:       "Save to",
		KeyBrowse:            "Browse",
		KeyRateLimit:         "Limit speed per file",
		KeyStart:             "Start",
		KeyPause:             "Pause",
		KeyResume:            "Resume",
		KeyStop:              "Stop",
		KeyOpenFolder:        "Open folder",
		KeySettings:          "Settings",
		KeySelectAll:         "All",
		KeySelectNone:        "None",
		KeyInvert:            "Invert",
		KeySelectMatching:    "Select",
		KeyDeselectMatching:  "Deselect",
		KeyFilesSummary:      "%d of %d files selected (%s)",
		KeyNoFiles:           "No repository loaded",
		KeySaveSelection:     "Save selection",
		KeyLoadSelection:     "Load selection",
		KeyStatusLog:         "Status",
		KeyLanguage:          "Language",
		KeyDownloadDirectory: "Download Directory",
		KeyEnginePath:        "aria2c Path",
		KeyConnections:       "Connections per File",
		KeyEndpoint:          "Hub Endpoint",
		KeyToken:             "Access Token",
		KeyRevision:          "Revision",
		KeyAutoReveal:        "Open folder when finished",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyError:             "Error",
		KeyPleaseEnterRepo:   "Please enter a repository",
		KeyMissingFiles:      "%d files of the selection are not in this repository",
		KeySelectionSaved:    "Selection saved to %s",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "HF Загрузчик",
		KeyRepository:        "Репозиторий",
		KeyLoad:              "Загрузить",
		KeyDataset:           "Датасет",
		KeyDestination:       "Сохранить в",
		KeyBrowse:            "Обзор",
		KeyRateLimit:         "Ограничить скорость на файл",
		KeyStart:             "Старт",
		KeyPause:             "Пауза",
		KeyResume:            "Продолжить",
		KeyStop:              "Стоп",
		KeyOpenFolder:        "Открыть папку",
		KeySettings:          "Настройки",
		KeySelectAll:         "Все",
		KeySelectNone:        "Ничего",
		KeyInvert:            "Инвертировать",
		KeySelectMatching:    "Выбрать",
		KeyDeselectMatching:  "Снять",
		KeyFilesSummary:      "Выбрано %d из %d файлов (%s)",
		KeyNoFiles:           "Репозиторий не загружен",
		KeySaveSelection:     "Сохранить выбор",
		KeyLoadSelection:     "Загрузить выбор",
		KeyStatusLog:         "Статус",
		KeyLanguage:          "Язык",
		KeyDownloadDirectory: "Папка загрузки",
		KeyEnginePath:        "Путь к aria2c",
		KeyConnections:       "Соединений на файл",
		KeyEndpoint:          "Адрес Hub",
		KeyToken:             "Токен доступа",
		KeyRevision:          "Ревизия",
		KeyAutoReveal:        "Открыть папку по завершении",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyError:             "Ошибка",
		KeyPleaseEnterRepo:   "Пожалуйста, введите репозиторий",
		KeyMissingFiles:      "%d файлов из выбора нет в этом репозитории",
		KeySelectionSaved:    "Выбор сохранён в %s",
	}

	l.texts["zh"] = map[string]string{
		KeyAppTitle:          "HF 下载器",
		KeyRepository:        "仓库",
		KeyLoad:              "加载",
		KeyDataset:           "数据集",
		KeyDestination:       "保存到",
		KeyBrowse:            "浏览",
		KeyRateLimit:         "限制单文件速度",
		KeyStart:             "开始",
		KeyPause:             "暂停",
		KeyResume:            "继续",
		KeyStop:              "停止",
		KeyOpenFolder:        "打开文件夹",
		KeySettings:          "设置",
		KeySelectAll:         "全选",
		KeySelectNone:        "全不选",
		KeyInvert:            "反选",
		KeySelectMatching:    "选择",
		KeyDeselectMatching:  "取消",
		KeyFilesSummary:      "已选择 %d / %d 个文件 (%s)",
		KeyNoFiles:           "未加载仓库",
		KeySaveSelection:     "保存选择",
		KeyLoadSelection:     "加载选择",
		KeyStatusLog:         "状态",
		KeyLanguage:          "语言",
		KeyDownloadDirectory: "下载目录",
		KeyEnginePath:        "aria2c 路径",
		KeyConnections:       "每文件连接数",
		KeyEndpoint:          "Hub 地址",
		KeyToken:             "访问令牌",
		KeyRevision:          "版本",
		KeyAutoReveal:        "完成后打开文件夹",
		KeySave:              "保存",
		KeyCancel:            "取消",
		KeySettingsSaved:     "设置已保存！",
		KeyError:             "错误",
		KeyPleaseEnterRepo:   "请输入仓库",
		KeyMissingFiles:      "所选的 %d 个文件不在此仓库中",
		KeySelectionSaved:    "选择已保存到 %s",
	}
}
