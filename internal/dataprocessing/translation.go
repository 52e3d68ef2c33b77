package dataprocessing

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// sectionColumnNames maps the HS section titles used as column headers in the
// country sheets to stable destination column names. Releases alternate
// between "؛" and "،" as list separators, so several titles appear twice.
var sectionColumnNames = map[string]string{
	"الحيوانات الحية والمنتجات الحيوانية": "1_الحيوانات_الحية_والمنتجات_الحيوانية",
	"منتجات نباتية": "2_منتجات نباتية",
	"شحوم ودهون وزيوت حيوانية أو نباتية ومنتجات تفككها؛ دهون غذائية محضرة؛ شموع من أصل حيواني أو نباتي": "3_شحوم_ودهون_وزيوت_حيوانية_أو_نباتية_ومنتجات_تفككها",
	"شحوم ودهون وزيوت حيوانية أو نباتية ومنتجات تفككها، دهون غذائية محضرة، شموع من أصل حيواني أو نباتي": "3_شحوم_ودهون_وزيوت_حيوانية_أو_نباتية_ومنتجات_تفككها",
	"منتجات صناعة الأغذية؛ مشروبات؛ سوائل كحولية وخل؛ تبغ وأبدال تبغ مصنعة": "4_منتجات_صناعة_الأغذية",
	"منتجات صناعة الأغذية، مشروبات، سوائل كحولية وخل، تبغ وأبدال تبغ مصنعة": "4_منتجات_صناعة_الأغذية",
	"المنتجات المعدنية": "5_المنتجات_المعدنية",
	"منتجات الصناعات الكيماوية وما يتصل بها": "6_منتجات_الصناعات_الكيماوية_وما_يتصل_بها",
	"لدائن ومصنوعاتها؛ مطاط ومصنوعاته": "7_لدائن_ومصنوعاتها؛_مطاط_ومصنوعاته",
	"لدائن ومصنوعاتها، مطاط ومصنوعاته": "7_لدائن_ومصنوعاتها؛_مطاط_ومصنوعاته",
	"صلال وجلود خام و جلود مدبوغة وجلود بفراء ومصنوعات هذه المواد؛ أصناف عدة الحيوانات و السراجة؛ لوازم السفر؛ حقائب يدوية وأوعية مماثلة لها؛ مصنوعات من مصارين الحيوانات (عدا مصارين دودة القز)": "8_صلال_وجلود_خام_و_جلود_مدبوغة_وجلود_بفراء_ومصنوعات_هذه_المواد",
	"صلال وجلود خام و جلود مدبوغة وجلود بفراء ومصنوعات هذه المواد، أصناف عدة الحيوانات و السراجة، لوازم السفر، حقائب يدوية وأوعية مماثلة لها، مصنوعات من مصارين الحيوانات (عدا مصارين دودة القز)": "8_صلال_وجلود_خام_و_جلود_مدبوغة_وجلود_بفراء_ومصنوعات_هذه_المواد",
	"خشـب ومصنوعاتــه؛ فحم خشبـــي؛ فلين ومصنوعاته؛ مصنوعات من القش أو من الحلفا أو من مواد الضفر الأُخر؛ أصناف صناعتي الحصر والسلال": "9_خشـب_ومصنوعاتــه",
	"خشـب ومصنوعاتــه، فحم خشبـــي، فلين ومصنوعاته، مصنوعات من القش أو من الحلفا أو من مواد الضفر الأُخر، أصناف صناعتي الحصر والسلال": "9_خشـب_ومصنوعاتــه",
	"عجائن من خشب أو من مواد ليفية سليلوزية أخر؛ ورق أو ورق مقوى (نفايا وفضلات) بغرض إعادة التصنيع (مسترجعة)؛ ورق وورق مقوى ومصنوعاتهما": "10_عجائن_من_خشب_أو_من_مواد_ليفية_سليلوزية_أخر",
	"عجائن من خشب أو من مواد ليفية سليلوزية أخر، ورق أو ورق مقوى (نفايا وفضلات) بغرض إعادة التصنيع (مسترجعة)، ورق وورق مقوى ومصنوعاتهما": "10_عجائن_من_خشب_أو_من_مواد_ليفية_سليلوزية_أخر",
	"مواد نسـجية ومصنوعات من هذه المواد": "11_مواد_نسـجية_ومصنوعات_من_هذه_المواد",
	"أحذية، أغطية رأس، مظلات مطر، مظلات شمس، عصي مشي، عصي بمقاعد، سياط، وسياط الفروسية، أجزاء هذه الأصناف؛ ريش محضر وأصناف مصنوعة منه؛ أزهار اصطناعية؛ مصنوعات من شعر بشري": "12_أحذية،_أغطية_رأس،_مظلات_مطر،_مظلات_شمس،_عصي_مشي،_عصي_بمقاعد،_سياط،_وسياط_الفروسية،_أجزاء_هذه_الأصناف",
	"أحذية، أغطية رأس، مظلات مطر، مظلات شمس، عصي مشي، عصي بمقاعد، سياط، وسياط الفروسية، أجزاء هذه الأصناف، ريش محضر وأصناف مصنوعة منه، أزهار اصطناعية، مصنوعات من شعر بشري": "12_أحذية،_أغطية_رأس،_مظلات_مطر،_مظلات_شمس،_عصي_مشي،_عصي_بمقاعد،_سياط،_وسياط_الفروسية،_أجزاء_هذه_الأصناف",
	"مصنوعات من حجر أو جص أو إسمنت أو حرير صخري (اسبستوس) أو ميكا أو من مواد مماثلة؛ مصنوعات من خزف؛ زجاج ومصنوعاته": "13_مصنوعات_من_حجر_أو_جص_أو_إسمنت_أو_حرير_صخري_اسبستوس_أو_ميكا_أو_من_مواد_مماثلة",
	"مصنوعات من حجر أو جص أو إسمنت أو حرير صخري (اسبستوس) أو ميكا أو من مواد مماثلة، مصنوعات من خزف، زجاج ومصنوعاته": "13_مصنوعات_من_حجر_أو_جص_أو_إسمنت_أو_حرير_صخري_اسبستوس_أو_ميكا_أو_من_مواد_مماثلة",
	"لؤلؤ طبيعي أو مستنبت، أحجار كريمة أو شبه كريمة، معادن ثمينة، معادن عادية مكسوة بقشرة من معادن ثمينة، مصنوعات من هذه المواد؛ حلي الغواية (مقلدة)؛ نقود": "14_لؤلؤ_طبيعي_أو_مستنبت،_أحجار_كريمة_أو_شبه_كريمة،_معادن_ثمينة،_معادن_عادية_مكسوة_بقشرة_من_معادن_ثمينة،_مصنوعات_من_هذه_المواد",
	"لؤلؤ طبيعي أو مستنبت، أحجار كريمة أو شبه كريمة، معادن ثمينة، معادن عادية مكسوة بقشرة من معادن ثمينة، مصنوعات من هذه المواد، حلي الغواية (مقلدة)، نقود": "14_لؤلؤ_طبيعي_أو_مستنبت،_أحجار_كريمة_أو_شبه_كريمة،_معادن_ثمينة،_معادن_عادية_مكسوة_بقشرة_من_معادن_ثمينة،_مصنوعات_من_هذه_المواد",
	"معادن عادية ومصنوعاتها": "15_معادن_عادية_ومصنوعاتها",
	"آلات وأجهزة آلية؛ معدات كهربائية؛ أجزاؤها؛ أجهزة تسجيل واذاعة الصوت والصورة وأجهزة تسجيل واذاعة الصوت والصورة في الإذاعة المرئية (التلفزيون)، أجزاء ولوازم هذه الأجهزة": "16_آلات_وأجهزة_آلية",
	"آلات وأجهزة آلية، معدات كهربائية، أجزاؤها، أجهزة تسجيل واذاعة الصوت والصورة وأجهزة تسجيل واذاعة الصوت والصورة في الإذاعة المرئية (التلفزيون)، أجزاء ولوازم هذه الأجهزة": "16_آلات_وأجهزة_آلية",
	"عربات، طائرات، بواخر، ومعدات نقل مماثلة": "17_عربات،_طائرات،_بواخر،_ومعدات_نقل_مماثلة",
	"أدوات وأجهزة للبصريات أو للتصوير الفوتوغرافي أو للتصوير السينمائي أو للقياس أو للفحص والضبط الدقيق، أدوات وأجهزة للطب أو الجراحة؛ أصناف صناعة الساعات؛ أدوات موسيقية؛ أجزاء ولوازم هذه الأدوات والأجهزة": "18_أدوات_وأجهزة_للبصريات_أو_للتصوير_الفوتوغرافي_أو_للتصوير_السينمائي_أو_للقياس_أو_للفحص_والضبط_الدقيق",
	"أدوات وأجهزة للبصريات أو للتصوير الفوتوغرافي أو للتصوير السينمائي أو للقياس أو للفحص والضبط الدقيق، أدوات وأجهزة للطب أو الجراحة، أصناف صناعة الساعات، أدوات موسيقية، أجزاء ولوازم هذه الأدوات والأجهزة": "18_أدوات_وأجهزة_للبصريات_أو_للتصوير_الفوتوغرافي_أو_للتصوير_السينمائي_أو_للقياس_أو_للفحص_والضبط_الدقيق",
	"أسلحة وذخائر؛ أجزاؤها ولوازمها": "19_أسلحة_وذخائر",
	"أسلحة وذخائر، أجزاؤها ولوازمها": "19_أسلحة_وذخائر",
	"سلع ومنتجات متـنوعة": "20_سلع_ومنتجات_متـنوعة",
	"تحف فنية، قطع للمجموعات وقطع أثرية": "21_تحف_فنية،_قطع_للمجموعات_وقطع_أثرية",
	"الأقسام الدولة": "الدولة",
}

// sectionColumnIndex is sectionColumnNames keyed by normalized label.
var sectionColumnIndex = func() map[string]string {
	idx := make(map[string]string, len(sectionColumnNames))
	for label, name := range sectionColumnNames {
		idx[normalizeLabel(label)] = name
	}
	return idx
}()

// TranslateSectionLabel returns the destination column name for a country
// sheet header label, or the normalized label itself when it is not a known
// section title.
func TranslateSectionLabel(label string) string {
	key := normalizeLabel(label)
	if name, ok := sectionColumnIndex[key]; ok {
		return name
	}
	return key
}

// normalizeLabel composes the label to NFC and collapses whitespace runs,
// including the line breaks found in wrapped header cells.
func normalizeLabel(label string) string {
	return strings.Join(strings.Fields(norm.NFC.String(label)), " ")
}
