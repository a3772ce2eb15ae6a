package router

import (
	"github.com/jfbinTECHA/zetav10/internal/persona"
)

// Generated snippets are React/JSX text. Template literals are avoided so the
// snippets stay plain strings end to end.

const buttonGenericCode = `function MyButton({ onClick, children, variant = 'primary', size = 'medium' }) {
  const baseClasses = "rounded font-medium transition-colors focus:outline-none focus:ring-2";
  const variants = {
    primary: "bg-blue-500 text-white hover:bg-blue-600 focus:ring-blue-300",
    secondary: "bg-gray-500 text-white hover:bg-gray-600 focus:ring-gray-300",
    danger: "bg-red-500 text-white hover:bg-red-600 focus:ring-red-300",
    success: "bg-green-500 text-white hover:bg-green-600 focus:ring-green-300"
  };
  const sizes = {
    small: "px-3 py-1 text-sm",
    medium: "px-4 py-2",
    large: "px-6 py-3 text-lg"
  };

  return (
    <button
      onClick={onClick}
      className={baseClasses + " " + variants[variant] + " " + sizes[size]}
    >
      {children}
    </button>
  );
}`

const buttonVegaCode = `function AccessibleButton({ onClick, children, variant = 'primary', disabled = false }) {
  const baseClasses = "rounded-lg font-semibold transition-all duration-200 focus:outline-none focus:ring-4 transform active:scale-95";
  const variants = {
    primary: "bg-blue-600 text-white hover:bg-blue-700 focus:ring-blue-300 shadow-lg",
    secondary: "bg-gray-200 text-gray-800 hover:bg-gray-300 focus:ring-gray-300",
    danger: "bg-red-600 text-white hover:bg-red-700 focus:ring-red-300",
    success: "bg-green-600 text-white hover:bg-green-700 focus:ring-green-300"
  };

  const disabledClasses = disabled ? "opacity-50 cursor-not-allowed" : "";

  return (
    <button
      onClick={disabled ? undefined : onClick}
      disabled={disabled}
      className={baseClasses + " " + variants[variant] + " " + disabledClasses}
      aria-label={typeof children === 'string' ? children : 'Button'}
    >
      {children}
    </button>
  );
}`

const buttonKiloCode = `function SmartButton({ onClick, children, intelligence = 'basic' }) {
  const [clickCount, setClickCount] = useState(0);
  const [isThinking, setIsThinking] = useState(false);

  const handleClick = async () => {
    setClickCount(prev => prev + 1);
    setIsThinking(true);

    // Simulate AI processing
    await new Promise(resolve => setTimeout(resolve, 500));

    setIsThinking(false);
    onClick && onClick();
  };

  return (
    <button
      onClick={handleClick}
      disabled={isThinking}
      className="px-6 py-3 bg-gradient-to-r from-purple-500 to-pink-500 text-white rounded-xl font-bold shadow-lg hover:shadow-xl transform hover:scale-105 transition-all duration-300"
    >
      {isThinking ? 'Processing...' : children}
      {intelligence === 'advanced' && <span className="ml-2">*</span>}
    </button>
  );
}`

const formCode = `function ContactForm() {
  const [formData, setFormData] = useState({ name: '', email: '', message: '' });
  const [errors, setErrors] = useState({});

  const handleChange = (e) => {
    setFormData({ ...formData, [e.target.name]: e.target.value });
  };

  const validate = () => {
    const newErrors = {};
    if (!formData.name) newErrors.name = 'Name is required';
    if (!formData.email) newErrors.email = 'Email is required';
    if (!formData.message) newErrors.message = 'Message is required';
    return newErrors;
  };

  const handleSubmit = (e) => {
    e.preventDefault();
    const validationErrors = validate();
    if (Object.keys(validationErrors).length === 0) {
      console.log('Form submitted:', formData);
    } else {
      setErrors(validationErrors);
    }
  };

  return (
    <form onSubmit={handleSubmit} className="space-y-4">
      <input name="name" value={formData.name} onChange={handleChange} placeholder="Your Name" className="w-full p-2 border rounded" />
      {errors.name && <p className="text-red-500 text-sm">{errors.name}</p>}
      <input name="email" type="email" value={formData.email} onChange={handleChange} placeholder="Your Email" className="w-full p-2 border rounded" />
      {errors.email && <p className="text-red-500 text-sm">{errors.email}</p>}
      <textarea name="message" value={formData.message} onChange={handleChange} placeholder="Your Message" className="w-full p-2 border rounded" rows="4" />
      {errors.message && <p className="text-red-500 text-sm">{errors.message}</p>}
      <button type="submit" className="px-4 py-2 bg-blue-500 text-white rounded hover:bg-blue-600">
        Send Message
      </button>
    </form>
  );
}`

const cardCode = `function Card({ title, children, className = '' }) {
  return (
    <div className={"bg-white shadow-lg rounded-lg p-6 border border-gray-200 " + className}>
      {title && <h3 className="font-bold text-xl mb-4 text-gray-800">{title}</h3>}
      <div className="text-gray-700">
        {children}
      </div>
    </div>
  );
}`

const listCode = `function SearchableList({ items, placeholder = "Search..." }) {
  const [searchTerm, setSearchTerm] = useState('');
  const [filteredItems, setFilteredItems] = useState(items);

  useEffect(() => {
    setFilteredItems(
      items.filter(item =>
        item.toLowerCase().includes(searchTerm.toLowerCase())
      )
    );
  }, [searchTerm, items]);

  return (
    <div>
      <input
        type="text"
        value={searchTerm}
        onChange={(e) => setSearchTerm(e.target.value)}
        placeholder={placeholder}
        className="w-full p-2 mb-4 border rounded"
      />
      <ul className="space-y-2">
        {filteredItems.map((item, index) => (
          <li key={index} className="p-2 bg-gray-100 rounded">
            {item}
          </li>
        ))}
      </ul>
    </div>
  );
}`

const navCode = `function Navigation() {
  const [isOpen, setIsOpen] = useState(false);

  return (
    <nav className="bg-blue-600 text-white">
      <div className="max-w-7xl mx-auto px-4">
        <div className="flex justify-between items-center py-4">
          <div className="font-bold text-xl">MyApp</div>

          <div className="hidden md:flex space-x-4">
            <a href="#" className="hover:bg-blue-700 px-3 py-2 rounded">Home</a>
            <a href="#" className="hover:bg-blue-700 px-3 py-2 rounded">About</a>
            <a href="#" className="hover:bg-blue-700 px-3 py-2 rounded">Contact</a>
          </div>

          <button onClick={() => setIsOpen(!isOpen)} className="md:hidden">
            Menu
          </button>
        </div>

        {isOpen && (
          <div className="md:hidden pb-4">
            <a href="#" className="block py-2 hover:bg-blue-700">Home</a>
            <a href="#" className="block py-2 hover:bg-blue-700">About</a>
            <a href="#" className="block py-2 hover:bg-blue-700">Contact</a>
          </div>
        )}
      </div>
    </nav>
  );
}`

// =============================================================================
// CODE GENERATION RULES
// =============================================================================

func (r *Router) handleButton(req *Request) Outcome {
	req.Ctx.LastCodeType = "button"

	switch req.Ctx.CurrentAgent {
	case persona.KeyVega:
		return Outcome{
			Reply: "As your UX specialist, here's a button with excellent accessibility and user experience:",
			Code:  buttonVegaCode,
		}
	case persona.KeyKilo:
		return Outcome{
			Reply: "Here's a smart button component with AI-enhanced features:",
			Code:  buttonKiloCode,
		}
	default:
		return Outcome{
			Reply: "Here's a versatile button component with multiple variants:",
			Code:  buttonGenericCode,
		}
	}
}

func (r *Router) handleButtonColor(req *Request) Outcome {
	req.Ctx.LastCodeType = "button"
	return Outcome{
		Reply: "Here's the button with a red/danger variant:",
		Code:  "<MyButton variant=\"danger\" onClick={handleClick}>\n  Click Me\n</MyButton>",
	}
}

func (r *Router) handleButtonSize(req *Request) Outcome {
	req.Ctx.LastCodeType = "button"
	return Outcome{
		Reply: "Here's the larger version of the button:",
		Code:  "<MyButton size=\"large\" onClick={handleClick}>\n  Big Button\n</MyButton>",
	}
}

func (r *Router) handleForm(req *Request) Outcome {
	req.Ctx.LastCodeType = "form"
	return Outcome{Reply: "Here's a user-friendly form component with validation:", Code: formCode}
}

func (r *Router) handleCard(req *Request) Outcome {
	req.Ctx.LastCodeType = "card"
	return Outcome{Reply: "Here's a flexible card component you can reuse:", Code: cardCode}
}

func (r *Router) handleList(req *Request) Outcome {
	req.Ctx.LastCodeType = "list"
	return Outcome{Reply: "Here's a dynamic list component with search functionality:", Code: listCode}
}

func (r *Router) handleNav(req *Request) Outcome {
	req.Ctx.LastCodeType = "nav"
	return Outcome{Reply: "Here's a responsive navigation component:", Code: navCode}
}
