package router

import "github.com/jfbinTECHA/zetav10/internal/persona"

// deepDiveTriggers gates each specialist's bespoke intent: the persona must be
// active, the input must contain a primary domain keyword, and (when set) a
// secondary action keyword.
var deepDiveTriggers = map[string]struct {
	primary   []string
	secondary []string
}{
	persona.KeyChrono: {primary: []string{"analyze", "patient", "medical"}, secondary: []string{"data", "analyze"}},
	persona.KeyVega:   {primary: []string{"ui", "design", "ux"}, secondary: []string{"evaluate", "review"}},
	persona.KeyAria:   {primary: []string{"research", "literature", "study"}},
	persona.KeyKilo:   {primary: []string{"ai", "model", "machine learning"}, secondary: []string{"design", "create", "build"}},
}

func (r *Router) matchDeepDive(key string) func(*Request) bool {
	trigger := deepDiveTriggers[key]
	return func(req *Request) bool {
		if req.Ctx.CurrentAgent != key {
			return false
		}
		if !containsAny(req.Lower, trigger.primary...) {
			return false
		}
		return len(trigger.secondary) == 0 || containsAny(req.Lower, trigger.secondary...)
	}
}

const chronoDeepDiveCode = `// Medical Data Analysis Component
function HealthDataAnalyzer({ patientData }) {
  const [insights, setInsights] = useState({});
  const [riskFactors, setRiskFactors] = useState([]);

  useEffect(() => {
    setInsights(analyzePatientData(patientData));
    setRiskFactors(identifyRiskFactors(patientData));
  }, [patientData]);

  return (
    <div className="bg-white p-6 rounded-lg shadow-lg">
      <h3 className="text-xl font-bold mb-4">Medical Data Analysis</h3>
      <div className="grid grid-cols-2 gap-4 mb-6">
        <div className="bg-blue-50 p-4 rounded">
          <h4 className="font-semibold text-blue-800">Key Insights</h4>
          <ul className="text-sm text-blue-700 mt-2">
            {Object.entries(insights).map(([key, value]) => (
              <li key={key}>{key}: {value}</li>
            ))}
          </ul>
        </div>
        <div className="bg-red-50 p-4 rounded">
          <h4 className="font-semibold text-red-800">Risk Factors</h4>
          <ul className="text-sm text-red-700 mt-2">
            {riskFactors.map((risk, index) => (
              <li key={index}>{risk}</li>
            ))}
          </ul>
        </div>
      </div>
      <div className="bg-green-50 p-4 rounded">
        <h4 className="font-semibold text-green-800">Recommendations</h4>
        <p className="text-sm text-green-700 mt-2">
          Based on the analysis, I recommend scheduling a follow-up consultation
          and monitoring the identified risk factors closely.
        </p>
      </div>
    </div>
  );
}`

const vegaDeepDiveCode = `// UI/UX Evaluation Component
function UXEvaluator({ designSpec }) {
  const [evaluation, setEvaluation] = useState({});
  const [recommendations, setRecommendations] = useState([]);

  useEffect(() => {
    const result = evaluateDesign(designSpec);
    setEvaluation(result);
    setRecommendations(generateRecommendations(result));
  }, [designSpec]);

  return (
    <div className="bg-white p-6 rounded-lg shadow-lg">
      <h3 className="text-xl font-bold mb-4">UI/UX Evaluation Report</h3>
      <div className="grid grid-cols-3 gap-4 mb-6">
        <div className="text-center">
          <div className="text-2xl font-bold text-blue-600">{evaluation.accessibility || 0}/100</div>
          <div className="text-sm text-gray-600">Accessibility</div>
        </div>
        <div className="text-center">
          <div className="text-2xl font-bold text-green-600">{evaluation.usability || 0}/100</div>
          <div className="text-sm text-gray-600">Usability</div>
        </div>
        <div className="text-center">
          <div className="text-2xl font-bold text-purple-600">{evaluation.aesthetics || 0}/100</div>
          <div className="text-sm text-gray-600">Aesthetics</div>
        </div>
      </div>
      <div className="bg-yellow-50 p-4 rounded mb-4">
        <h4 className="font-semibold text-yellow-800">Key Recommendations</h4>
        <ul className="text-sm text-yellow-700 mt-2">
          {recommendations.map((rec, index) => (
            <li key={index}>{rec}</li>
          ))}
        </ul>
      </div>
      <button className="bg-blue-500 text-white px-4 py-2 rounded hover:bg-blue-600">
        Generate Improved Design
      </button>
    </div>
  );
}`

const ariaDeepDiveCode = `// Research Analysis Component
function ResearchAnalyzer({ topic, papers }) {
  const [connections, setConnections] = useState([]);
  const [methodology, setMethodology] = useState({});
  const [gaps, setGaps] = useState([]);

  useEffect(() => {
    const analysis = analyzeLiterature(papers);
    setConnections(analysis.connections);
    setMethodology(analysis.methodology);
    setGaps(analysis.gaps);
  }, [papers]);

  return (
    <div className="bg-white p-6 rounded-lg shadow-lg">
      <h3 className="text-xl font-bold mb-4">Literature Analysis: {topic}</h3>
      <div className="grid grid-cols-1 md:grid-cols-3 gap-4 mb-6">
        <div className="bg-blue-50 p-4 rounded">
          <h4 className="font-semibold text-blue-800">Key Connections</h4>
          <ul className="text-sm text-blue-700 mt-2">
            {connections.map((conn, index) => (
              <li key={index}>{conn}</li>
            ))}
          </ul>
        </div>
        <div className="bg-green-50 p-4 rounded">
          <h4 className="font-semibold text-green-800">Methodology</h4>
          <div className="text-sm text-green-700 mt-2">
            <p><strong>Approach:</strong> {methodology.approach}</p>
            <p><strong>Sample Size:</strong> {methodology.sampleSize}</p>
            <p><strong>Validity:</strong> {methodology.validity}/10</p>
          </div>
        </div>
        <div className="bg-orange-50 p-4 rounded">
          <h4 className="font-semibold text-orange-800">Research Gaps</h4>
          <ul className="text-sm text-orange-700 mt-2">
            {gaps.map((gap, index) => (
              <li key={index}>{gap}</li>
            ))}
          </ul>
        </div>
      </div>
    </div>
  );
}`

const kiloDeepDiveCode = `// AI Model Architecture Designer
function AIModelDesigner({ problemType, dataCharacteristics }) {
  const [architecture, setArchitecture] = useState({});
  const [hyperparameters, setHyperparameters] = useState({});
  const [performance, setPerformance] = useState({});

  useEffect(() => {
    const design = designNeuralNetwork(problemType, dataCharacteristics);
    setArchitecture(design.architecture);
    setHyperparameters(design.hyperparameters);
    setPerformance(design.expectedPerformance);
  }, [problemType, dataCharacteristics]);

  return (
    <div className="bg-white p-6 rounded-lg shadow-lg">
      <h3 className="text-xl font-bold mb-4">AI Model Architecture</h3>
      <div className="grid grid-cols-1 md:grid-cols-2 gap-6 mb-6">
        <div className="bg-gray-50 p-4 rounded">
          <h4 className="font-semibold text-gray-800 mb-2">Network Architecture</h4>
          <div className="space-y-2 text-sm">
            <p><strong>Type:</strong> {architecture.type}</p>
            <p><strong>Layers:</strong> {architecture.layers?.join(' / ')}</p>
            <p><strong>Activation:</strong> {architecture.activation}</p>
            <p><strong>Output:</strong> {architecture.output}</p>
          </div>
        </div>
        <div className="bg-blue-50 p-4 rounded">
          <h4 className="font-semibold text-blue-800 mb-2">Hyperparameters</h4>
          <div className="space-y-2 text-sm">
            <p><strong>Learning Rate:</strong> {hyperparameters.learningRate}</p>
            <p><strong>Batch Size:</strong> {hyperparameters.batchSize}</p>
            <p><strong>Epochs:</strong> {hyperparameters.epochs}</p>
            <p><strong>Optimizer:</strong> {hyperparameters.optimizer}</p>
          </div>
        </div>
      </div>
      <div className="bg-green-50 p-4 rounded">
        <h4 className="font-semibold text-green-800">Expected Performance</h4>
        <div className="grid grid-cols-3 gap-4 mt-2 text-sm">
          <div><div className="font-bold">{performance.accuracy || 0}%</div><div className="text-gray-600">Accuracy</div></div>
          <div><div className="font-bold">{performance.precision || 0}%</div><div className="text-gray-600">Precision</div></div>
          <div><div className="font-bold">{performance.recall || 0}%</div><div className="text-gray-600">Recall</div></div>
        </div>
      </div>
    </div>
  );
}`

func (r *Router) handleChronoDeepDive(req *Request) Outcome {
	return Outcome{
		Reply: "As a medical informatics specialist, I can help analyze healthcare data. Please provide some sample data or describe the analysis needed. I can create data visualization components, implement predictive models, or design patient monitoring systems.",
		Code:  chronoDeepDiveCode,
	}
}

func (r *Router) handleVegaDeepDive(req *Request) Outcome {
	return Outcome{
		Reply: "I'll evaluate the UI/UX design. Please describe the interface or provide details about the user experience issues. I can assess accessibility, usability, and suggest improvements.",
		Code:  vegaDeepDiveCode,
	}
}

func (r *Router) handleAriaDeepDive(req *Request) Outcome {
	return Outcome{
		Reply: "As a research specialist, I can help with literature reviews, data discovery, and academic research. What topic are you researching? I can find relevant studies, identify connections, and suggest methodologies.",
		Code:  ariaDeepDiveCode,
	}
}

func (r *Router) handleKiloDeepDive(req *Request) Outcome {
	return Outcome{
		Reply: "As an AI developer, I can design neural network architectures, implement machine learning models, and optimize algorithms. What type of AI system are you building? I can create model architectures, training pipelines, and deployment solutions.",
		Code:  kiloDeepDiveCode,
	}
}
