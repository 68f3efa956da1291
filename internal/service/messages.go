package service

import (
	"errors"
	"strings"

	"storefront/internal/domain"
)

type message struct{ ar, en string }

func (m message) in(lang string) string {
	switch {
	case strings.HasPrefix(lang, "ar"):
		return m.ar
	case strings.HasPrefix(lang, "en"):
		return m.en
	}
	return m.ar + " - " + m.en
}

var (
	errorMessages = []struct {
		err error
		msg message
	}{
		{domain.ErrDuplicateEmail, message{"البريد الإلكتروني مسجل مسبقاً", "Email already registered"}},
		{domain.ErrInvalidCredentials, message{"البريد الإلكتروني أو كلمة المرور غير صحيحة", "Invalid email or password"}},
		{domain.ErrNotLoggedIn, message{"يجب تسجيل الدخول أولاً", "Please login first"}},
		{domain.ErrInvalidRating, message{"التقييم يجب أن يكون من 1 إلى 5", "Rating must be between 1 and 5"}},
		{domain.ErrInvalidQuantity, message{"الكمية يجب أن تكون 1 على الأقل", "Quantity must be at least 1"}},
		{domain.ErrInvalidOrderStatus, message{"حالة الطلب غير معروفة", "Unknown order status"}},
		{domain.ErrEmptyCart, message{"السلة فارغة", "Your cart is empty"}},
		{domain.ErrVersionConflict, message{"تم تعديل البيانات من مكان آخر، حاول مرة أخرى", "Data changed elsewhere, please try again"}},
		{domain.ErrStoreUnavailable, message{"جاري تحميل بيانات المتجر", "Store data is still loading"}},
		{domain.ErrPersist, message{"تعذر حفظ التغييرات", "Could not save your changes"}},
		{domain.ErrInvalidInput, invalidData},
		{domain.ErrInvalidToken, message{"انتهت الجلسة، يرجى تسجيل الدخول مجدداً", "Session expired, please login again"}},
		{domain.ErrForbidden, message{"ليس لديك صلاحية لهذا الإجراء", "You are not allowed to do this"}},
		{domain.ErrNotFound, message{"العنصر غير موجود", "Not found"}},
		{domain.ErrTooManyRequests, message{"طلبات كثيرة، حاول لاحقاً", "Too many requests, try again later"}},
		{domain.ErrServerBusy, message{"الخادم مشغول، حاول لاحقاً", "Server is busy, try again later"}},
		{domain.ErrTimeout, message{"انتهت مهلة الطلب", "Request timed out"}},
	}

	fieldMessages = map[string]message{
		"email":    {"صيغة البريد الإلكتروني غير صحيحة", "Invalid email format"},
		"password": {"كلمة المرور يجب أن تكون 8 أحرف على الأقل وتحتوي على حرف كبير وصغير ورقم", "Password must be at least 8 characters with uppercase, lowercase and a number"},
		"role":     {"نوع الحساب غير صحيح", "Invalid account type"},
		"price":    {"السعر غير صحيح", "Invalid price"},
		"stock":    {"المخزون غير صحيح", "Invalid stock"},
		"quantity": {"الكمية المطلوبة غير متوفرة", "Requested quantity is not in stock"},
	}

	required    = message{"البريد الإلكتروني وكلمة المرور مطلوبان", "Email and password are required"}
	invalidData = message{"البيانات المدخلة غير صحيحة", "Invalid input"}
	unexpected  = message{"حدث خطأ غير متوقع", "Something went wrong"}
)

// Message returns the user-facing text for err in lang ("ar", "en", or
// anything else for both). Internal details never leak into it.
func Message(err error, lang string) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		if ve.Reason == "required" && (ve.Field == "email" || ve.Field == "password") {
			return required.in(lang)
		}
		if m, ok := fieldMessages[ve.Field]; ok {
			return m.in(lang)
		}
		return invalidData.in(lang)
	}
	for _, e := range errorMessages {
		if errors.Is(err, e.err) {
			return e.msg.in(lang)
		}
	}
	return unexpected.in(lang)
}
